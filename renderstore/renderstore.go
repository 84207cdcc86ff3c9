// Package renderstore persists accumulated render images, one GridFS
// bucket per render task (keyed by the task's content hash), each
// completed render filed under its iteration id. Workers rendering
// different iterations of the same task each deposit their own
// numbered image; a caller averages across all of them to get the
// combined result. Grounded on
// the source's render_store.rs.
package renderstore

import (
	"bytes"
	"context"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"strconv"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/gridfs"
	"go.mongodb.org/mongo-driver/mongo/options"

	rmath "github.com/mertwole/pathtracer/math"
)

// Store connects to the render_outputs MongoDB database and exposes
// one GridFS bucket per render-task hash.
type Store struct {
	database *mongo.Database
}

// Connect dials mongodbURL and returns a Store. The connection is
// lazy — no round trip happens until a bucket operation runs.
func Connect(ctx context.Context, mongodbURL string) (*Store, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(mongodbURL))
	if err != nil {
		return nil, fmt.Errorf("renderstore: connecting: %w", err)
	}
	return &Store{database: client.Database("render_outputs")}, nil
}

func (s *Store) bucket(renderTaskHash string) (*gridfs.Bucket, error) {
	bucket, err := gridfs.NewBucket(s.database, options.GridFSBucket().SetName(renderTaskHash))
	if err != nil {
		return nil, fmt.Errorf("renderstore: opening bucket %q: %w", renderTaskHash, err)
	}
	return bucket, nil
}

// Image is a decoded render, row-major top-to-bottom.
type Image struct {
	Width, Height int
	Pixels        []rmath.Color
}

// SaveRender uploads one fully-accumulated render as file id within
// renderTaskHash's bucket, packing pixel rows in reverse order and
// each channel as a big-endian float32 — the exact layout
// render_store.rs's save_render writes, so a worker on either side of
// a rolling deploy reads what the other wrote. id is the iteration's
// sequential position in its task's breakup (api.RenderTask.ID), not
// a live count — two workers finishing different iterations of the
// same task concurrently each get their own fixed name and never
// collide.
func (s *Store) SaveRender(ctx context.Context, renderTaskHash string, id int, image Image) error {
	bucket, err := s.bucket(renderTaskHash)
	if err != nil {
		return err
	}

	uploadStream, err := bucket.OpenUploadStream(
		fmt.Sprintf("%d", id),
		options.GridFSUpload().SetMetadata(bson.M{"width": image.Width, "height": image.Height}),
	)
	if err != nil {
		return fmt.Errorf("renderstore: opening upload stream: %w", err)
	}
	defer uploadStream.Close()

	if _, err := uploadStream.Write(packRowReversed(image)); err != nil {
		return fmt.Errorf("renderstore: writing render: %w", err)
	}
	return nil
}

// RenderIDs returns the ids of every render saved so far for
// renderTaskHash, read back from GridFS filenames rather than assumed
// contiguous from zero (a worker can fail to ever deposit one id).
func (s *Store) RenderIDs(ctx context.Context, renderTaskHash string) ([]int, error) {
	bucket, err := s.bucket(renderTaskHash)
	if err != nil {
		return nil, err
	}
	cursor, err := bucket.Find(bson.M{})
	if err != nil {
		return nil, fmt.Errorf("renderstore: listing renders: %w", err)
	}
	defer cursor.Close(ctx)

	var ids []int
	for cursor.Next(ctx) {
		var doc struct {
			Filename string `bson:"filename"`
		}
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("renderstore: decoding render entry: %w", err)
		}
		id, err := strconv.Atoi(doc.Filename)
		if err != nil {
			return nil, fmt.Errorf("renderstore: render filename %q is not an id: %w", doc.Filename, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// RenderCount reports how many renders have been saved for
// renderTaskHash so far.
func (s *Store) RenderCount(ctx context.Context, renderTaskHash string) (int, error) {
	ids, err := s.RenderIDs(ctx, renderTaskHash)
	if err != nil {
		return 0, err
	}
	return len(ids), nil
}

// LoadRender downloads the render filed under id in renderTaskHash's
// bucket.
func (s *Store) LoadRender(ctx context.Context, id int, renderTaskHash string) (Image, error) {
	bucket, err := s.bucket(renderTaskHash)
	if err != nil {
		return Image{}, err
	}

	cursor, err := bucket.Find(bson.M{"filename": fmt.Sprintf("%d", id)})
	if err != nil {
		return Image{}, fmt.Errorf("renderstore: finding render %d: %w", id, err)
	}
	defer cursor.Close(ctx)

	var file struct {
		Metadata struct {
			Width  int `bson:"width"`
			Height int `bson:"height"`
		} `bson:"metadata"`
	}
	if !cursor.Next(ctx) {
		return Image{}, fmt.Errorf("renderstore: render %d not found in bucket %q", id, renderTaskHash)
	}
	if err := cursor.Decode(&file); err != nil {
		return Image{}, fmt.Errorf("renderstore: decoding render %d metadata: %w", id, err)
	}

	downloadStream, err := bucket.OpenDownloadStreamByName(fmt.Sprintf("%d", id))
	if err != nil {
		return Image{}, fmt.Errorf("renderstore: opening download stream: %w", err)
	}
	defer downloadStream.Close()

	raw, err := io.ReadAll(downloadStream)
	if err != nil {
		return Image{}, fmt.Errorf("renderstore: reading render %d: %w", id, err)
	}

	pixels, err := unpackRowReversed(raw, file.Metadata.Width, file.Metadata.Height)
	if err != nil {
		return Image{}, err
	}

	return Image{Width: file.Metadata.Width, Height: file.Metadata.Height, Pixels: pixels}, nil
}

// Average loads every render saved for renderTaskHash and returns
// their mean, the Go form of the control panel's get_render handler.
func (s *Store) Average(ctx context.Context, renderTaskHash string) (Image, error) {
	ids, err := s.RenderIDs(ctx, renderTaskHash)
	if err != nil {
		return Image{}, err
	}
	if len(ids) == 0 {
		return Image{}, nil
	}

	multiplier := 1.0 / float32(len(ids))
	var result Image
	for _, id := range ids {
		render, err := s.LoadRender(ctx, id, renderTaskHash)
		if err != nil {
			return Image{}, err
		}
		if result.Pixels == nil {
			result = Image{Width: render.Width, Height: render.Height, Pixels: make([]rmath.Color, len(render.Pixels))}
		}
		for p, pixel := range render.Pixels {
			result.Pixels[p] = result.Pixels[p].Add(pixel.Mul(multiplier))
		}
	}
	return result, nil
}

// packRowReversed flattens image.Pixels bottom row first, each
// channel as a big-endian float32 triple.
func packRowReversed(image Image) []byte {
	out := make([]byte, 0, image.Width*image.Height*3*4)
	var buf [4]byte
	for row := image.Height - 1; row >= 0; row-- {
		for col := 0; col < image.Width; col++ {
			pixel := image.Pixels[col+row*image.Width]
			for _, channel := range [3]float32{pixel.X, pixel.Y, pixel.Z} {
				binary.BigEndian.PutUint32(buf[:], math.Float32bits(channel))
				out = append(out, buf[:]...)
			}
		}
	}
	return out
}

// unpackRowReversed is packRowReversed's inverse.
func unpackRowReversed(raw []byte, width, height int) ([]rmath.Color, error) {
	expected := width * height * 3 * 4
	if len(raw) != expected {
		return nil, fmt.Errorf("renderstore: expected %d bytes for a %dx%d render, got %d", expected, width, height, len(raw))
	}

	pixels := make([]rmath.Color, width*height)
	reader := bytes.NewReader(raw)
	var buf [4]byte
	for row := height - 1; row >= 0; row-- {
		for col := 0; col < width; col++ {
			var channels [3]float32
			for c := range channels {
				if _, err := io.ReadFull(reader, buf[:]); err != nil {
					return nil, fmt.Errorf("renderstore: reading pixel data: %w", err)
				}
				channels[c] = math.Float32frombits(binary.BigEndian.Uint32(buf[:]))
			}
			pixels[col+row*width] = rmath.NewVec3(channels[0], channels[1], channels[2])
		}
	}
	return pixels, nil
}
