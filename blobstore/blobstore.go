// Package blobstore holds scene source files (JSON node/material
// descriptors, OBJ meshes, images) in GridFS, one bucket per scene
// hash, deduping uploads by content hash. Grounded on the source's
// file_store.rs (fetch side) and control_panel's rest_api upload_file
// handler (write side with the md5 dedup check).
package blobstore

import (
	"bytes"
	"context"
	"crypto/md5"
	"encoding/hex"
	"errors"
	"fmt"
	"io"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/gridfs"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrNotFound is returned by FetchFile when the requested path has no
// file in the scene's bucket, so callers can branch on errors.Is
// rather than pattern-matching the driver's own error.
var ErrNotFound = errors.New("blobstore: file not found")

// Store connects to the scene_files MongoDB database.
type Store struct {
	database *mongo.Database
}

func Connect(ctx context.Context, mongodbURL string) (*Store, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(mongodbURL))
	if err != nil {
		return nil, fmt.Errorf("blobstore: connecting: %w", err)
	}
	return &Store{database: client.Database("scene_files")}, nil
}

// Hash returns the content hash used both as the scene's bucket name
// and to decide whether an uploaded file's content changed.
func Hash(data []byte) string {
	sum := md5.Sum(data)
	return hex.EncodeToString(sum[:])
}

func (s *Store) bucket(sceneHash string) (*gridfs.Bucket, error) {
	bucket, err := gridfs.NewBucket(s.database, options.GridFSBucket().SetName(sceneHash))
	if err != nil {
		return nil, fmt.Errorf("blobstore: opening bucket %q: %w", sceneHash, err)
	}
	return bucket, nil
}

// SceneFetcher binds a Store to one scene's bucket, satisfying
// scenegraph.FileFetcher (which takes only a path — the scene hash is
// fixed for the lifetime of one scenegraph.Load call).
type SceneFetcher struct {
	store     *Store
	sceneHash string
}

func (s *Store) Fetcher(sceneHash string) SceneFetcher {
	return SceneFetcher{store: s, sceneHash: sceneHash}
}

func (f SceneFetcher) FetchFile(ctx context.Context, path string) ([]byte, error) {
	return f.store.fetchFile(ctx, f.sceneHash, path)
}

// fetchFile downloads path from sceneHash's bucket.
func (s *Store) fetchFile(ctx context.Context, sceneHash, path string) ([]byte, error) {
	bucket, err := s.bucket(sceneHash)
	if err != nil {
		return nil, err
	}

	downloadStream, err := bucket.OpenDownloadStreamByName(path)
	if errors.Is(err, gridfs.ErrFileNotFound) {
		return nil, fmt.Errorf("blobstore: %q: %w", path, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("blobstore: opening %q: %w", path, err)
	}
	defer downloadStream.Close()

	data, err := io.ReadAll(downloadStream)
	if err != nil {
		return nil, fmt.Errorf("blobstore: reading %q: %w", path, err)
	}
	return data, nil
}

// UploadFile stores data under name in sceneHash's bucket, replacing
// any existing file of that name only if its content actually
// changed — the dedup the rest_api upload_file handler performs by
// comparing stored "md5" metadata against the new content's hash.
func (s *Store) UploadFile(ctx context.Context, sceneHash, name string, data []byte) error {
	bucket, err := s.bucket(sceneHash)
	if err != nil {
		return err
	}

	newHash := Hash(data)

	cursor, err := bucket.Find(bson.M{"filename": name})
	if err != nil {
		return fmt.Errorf("blobstore: listing %q: %w", name, err)
	}
	defer cursor.Close(ctx)

	var existing struct {
		ID       interface{} `bson:"_id"`
		Metadata struct {
			MD5 string `bson:"md5"`
		} `bson:"metadata"`
	}
	found := cursor.Next(ctx)
	if found {
		if err := cursor.Decode(&existing); err != nil {
			return fmt.Errorf("blobstore: decoding existing %q metadata: %w", name, err)
		}
		if existing.Metadata.MD5 == newHash {
			return nil
		}
		if err := bucket.Delete(existing.ID); err != nil {
			return fmt.Errorf("blobstore: replacing %q: %w", name, err)
		}
	}

	uploadStream, err := bucket.OpenUploadStream(name, options.GridFSUpload().SetMetadata(bson.M{"md5": newHash}))
	if err != nil {
		return fmt.Errorf("blobstore: opening upload stream for %q: %w", name, err)
	}
	defer uploadStream.Close()

	if _, err := io.Copy(uploadStream, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("blobstore: writing %q: %w", name, err)
	}
	return nil
}

// ListFiles returns every stored file's name mapped to its content
// hash, matching the rest_api get_file_list handler.
func (s *Store) ListFiles(ctx context.Context, sceneHash string) (map[string]string, error) {
	bucket, err := s.bucket(sceneHash)
	if err != nil {
		return nil, err
	}

	cursor, err := bucket.Find(bson.M{})
	if err != nil {
		return nil, fmt.Errorf("blobstore: listing files: %w", err)
	}
	defer cursor.Close(ctx)

	files := make(map[string]string)
	for cursor.Next(ctx) {
		var doc struct {
			Filename string `bson:"filename"`
			Metadata struct {
				MD5 string `bson:"md5"`
			} `bson:"metadata"`
		}
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("blobstore: decoding file entry: %w", err)
		}
		files[doc.Filename] = doc.Metadata.MD5
	}
	return files, nil
}
