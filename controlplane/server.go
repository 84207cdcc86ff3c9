// Package controlplane is the REST front door: scene file upload, job
// submission and fetching the averaged render of a task. Grounded on
// control_panel's rest_api/mod.rs, with actix-web's per-route macros
// expressed as chi routes and ServerState's fields carried the same
// way.
package controlplane

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/mertwole/pathtracer/api"
	"github.com/mertwole/pathtracer/blobstore"
	"github.com/mertwole/pathtracer/broker"
	"github.com/mertwole/pathtracer/renderstore"
)

// Server holds every connection a handler needs, the Go form of
// ServerState.
type Server struct {
	Blobs   *blobstore.Store
	Renders *renderstore.Store

	BrokerURL   string
	BrokerQueue string
}

// Router assembles the chi mux, mirroring rest_api::config's route
// table.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Post("/scene/{hash}/files", s.uploadFile)
	r.Get("/scene/{hash}/files", s.listFiles)
	r.Post("/render_tasks", s.postRenderTask)
	r.Get("/render_tasks/{hash}/render", s.getRender)
	return r
}

type uploadFileRequest struct {
	Name string `json:"name"`
	Data []byte `json:"data"`
}

func (s *Server) uploadFile(w http.ResponseWriter, r *http.Request) {
	sceneHash := chi.URLParam(r, "hash")

	var req uploadFileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("decoding request: %v", err), http.StatusBadRequest)
		return
	}

	if err := s.Blobs.UploadFile(r.Context(), sceneHash, req.Name, req.Data); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, map[string]bool{"success": true})
}

func (s *Server) listFiles(w http.ResponseWriter, r *http.Request) {
	sceneHash := chi.URLParam(r, "hash")

	files, err := s.Blobs.ListFiles(r.Context(), sceneHash)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, map[string]any{"success": true, "files": files})
}

type postRenderTaskRequest struct {
	Task api.RenderTask `json:"task"`
}

// postRenderTask breaks the submitted task into single-iteration
// pieces and publishes each one, stalling publication whenever the
// queue already holds broker.MaxPending messages — the Go form of
// the source's post_render_task poll loop. The client supplies
// Task.SceneHash directly, having already uploaded the scene's files
// under that hash via uploadFile.
func (s *Server) postRenderTask(w http.ResponseWriter, r *http.Request) {
	var req postRenderTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("decoding request: %v", err), http.StatusBadRequest)
		return
	}

	pieces := req.Task.Breakup()

	conn, err := broker.Connect(s.BrokerURL, s.BrokerQueue)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	defer conn.Close()

	bodies := make(chan []byte)
	errCh := make(chan error, 1)
	go func() {
		errCh <- conn.PublishBounded(r.Context(), bodies)
	}()

	for _, piece := range pieces {
		body, err := json.Marshal(piece)
		if err != nil {
			close(bodies)
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		bodies <- body
	}
	close(bodies)

	if err := <-errCh; err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, map[string]bool{"success": true})
}

type getRenderResponse struct {
	Success     bool      `json:"success"`
	ImageData   []float32 `json:"image_data"`
	ImageWidth  int       `json:"image_width"`
	ImageHeight int       `json:"image_height"`
}

// getRender averages every render deposited so far for a task hash
// and returns the flattened RGB buffer, matching get_render.
func (s *Server) getRender(w http.ResponseWriter, r *http.Request) {
	taskHash := chi.URLParam(r, "hash")

	image, err := s.Renders.Average(r.Context(), taskHash)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	data := make([]float32, 0, len(image.Pixels)*3)
	for _, pixel := range image.Pixels {
		data = append(data, pixel.X, pixel.Y, pixel.Z)
	}

	writeJSON(w, getRenderResponse{
		Success:     true,
		ImageData:   data,
		ImageWidth:  image.Width,
		ImageHeight: image.Height,
	})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
