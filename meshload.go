// Copyright © 2024 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package rig

// meshload.go is the core's one auxiliary worker (spec.md §5/§6.2): a
// single goroutine servicing mesh-load requests over an SPSC channel
// pair, never touching the Scene Graph itself. Grounded on the teacher's
// loader.go runLoader goroutine and its load/loaded channel pair, narrowed
// from an N-worker/multi-channel asset pipeline down to one worker and one
// request/response pair, since mesh file parsing itself is out of scope
// (spec.md §1) - the actual disk read is supplied by the host as a
// MeshReader.

import "log"

// MeshHandle is the opaque result of successfully reading one mesh file.
// What it contains is up to the host; the core only carries it back to
// whichever Mesh entity requested it (see entity.go's Mesh.AABB field, which
// a host populates from MeshHandle once a response arrives).
type MeshHandle struct {
	Path string
	Data any
}

// MeshReader performs the actual (out-of-scope) disk read/parse for a
// single path, returning a MeshHandle or an error.
type MeshReader func(path string) (MeshHandle, error)

// MeshLoadRequest asks the worker to load every path attached to
// AttachmentID, a Mesh entity's Id chosen by the caller.
type MeshLoadRequest struct {
	AttachmentID Id
	Paths        []string
}

// MeshLoadResponse carries back the results of one request. Meshes holds
// every path that loaded; Failed holds every path that didn't, alongside
// its error - a request can partially succeed.
type MeshLoadResponse struct {
	AttachmentID Id
	Meshes       []MeshHandle
	Failed       []MeshLoadFailure
}

// MeshLoadFailure pairs a failed path with its error (spec.md §7's
// MeshLoadFailed: logged only, never fatal, never fails the rest of the
// batch).
type MeshLoadFailure struct {
	Path string
	Err  error
}

// meshLoader owns the worker goroutine and its channel pair. The main
// loop is the sole producer (via Submit) and sole consumer (via Drain);
// the worker is the sole consumer of requests and sole producer of
// responses, matching the teacher's loader/load/loaded shape with a
// single worker instead of a pool.
type meshLoader struct {
	read      MeshReader
	requests  chan MeshLoadRequest
	responses chan MeshLoadResponse
	done      chan struct{}
}

// newMeshLoader starts the worker goroutine and returns a loader ready to
// accept requests. read performs the actual file I/O the core does not do
// itself.
func newMeshLoader(read MeshReader) *meshLoader {
	l := &meshLoader{
		read:      read,
		requests:  make(chan MeshLoadRequest),
		responses: make(chan MeshLoadResponse),
		done:      make(chan struct{}),
	}
	go l.run()
	return l
}

// Submit enqueues req for loading. Expected to be called from the main
// loop thread only (single producer).
func (l *meshLoader) Submit(req MeshLoadRequest) { l.requests <- req }

// Drain returns every response ready without blocking, preserving send
// order within and across requests (spec.md §6.2: "ordered, lossless").
// Expected to be called once per tick from the main loop thread (single
// consumer).
func (l *meshLoader) Drain() []MeshLoadResponse {
	var out []MeshLoadResponse
	for {
		select {
		case resp := <-l.responses:
			out = append(out, resp)
		default:
			return out
		}
	}
}

// Shutdown stops the worker goroutine. Safe to call once; further Submit
// calls after Shutdown will block forever, matching the teacher's
// shutdown-message convention in loader.go's runLoader.
func (l *meshLoader) Shutdown() { close(l.done) }

// run processes requests until Shutdown is called. It never touches the
// Scene Graph (spec.md §5): only paths in, handles and errors out.
// Finished responses wait in an in-order queue until Drain takes them, so
// the worker keeps accepting requests while responses are pending.
func (l *meshLoader) run() {
	var pending []MeshLoadResponse
	for {
		var out chan MeshLoadResponse
		var next MeshLoadResponse
		if len(pending) > 0 {
			out, next = l.responses, pending[0]
		}
		select {
		case <-l.done:
			return
		case out <- next:
			pending = pending[1:]
		case req := <-l.requests:
			resp := MeshLoadResponse{AttachmentID: req.AttachmentID}
			for _, path := range req.Paths {
				handle, err := l.read(path)
				if err != nil {
					log.Printf("meshload: %s: %s", path, err)
					resp.Failed = append(resp.Failed, MeshLoadFailure{Path: path, Err: err})
					continue
				}
				resp.Meshes = append(resp.Meshes, handle)
			}
			pending = append(pending, resp)
		}
	}
}
