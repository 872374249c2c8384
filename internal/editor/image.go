// ABOUTME: Image field editor: upload a new image or delete the current one
// ABOUTME: Follows the same open, saving, closed protocol as other fields

package editor

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/markalston/cooking-codex/internal/client"
)

var (
	// ErrNoFile is returned when uploading before a file was selected
	ErrNoFile = errors.New("no image selected")
	// ErrNoImage is returned when deleting from a recipe without an image
	ErrNoImage = errors.New("recipe has no image")
	// ErrNotImage is returned when a selected file is not an image
	ErrNotImage = errors.New("file is not an image")
)

const (
	uploadAction = "uploading recipe image"
	deleteAction = "deleting recipe image"
	imageField   = "image"
)

// ImageFile is a selected image ready to upload
type ImageFile struct {
	Name        string
	ContentType string
	Data        []byte
}

// ImageChange is the committed outcome: a new image id, or nil after delete
type ImageChange struct {
	ImageID *string
}

// Uploaded reports whether the change set a new image
func (c ImageChange) Uploaded() bool {
	return c.ImageID != nil
}

// ImageEditor edits the recipe image
type ImageEditor struct {
	o       *Orchestrator
	onClose func(*ImageChange)

	mu    sync.Mutex
	state State
	file  *ImageFile
}

// OpenImage starts editing the recipe image
func OpenImage(o *Orchestrator, onClose func(*ImageChange)) (*ImageEditor, error) {
	if !o.slot.acquire(imageField) {
		return nil, ErrSlotBusy
	}
	return &ImageEditor{o: o, onClose: onClose, state: StateOpen}, nil
}

// State returns the current lifecycle state
func (e *ImageEditor) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// HasImage reports whether the recipe currently has an image
func (e *ImageEditor) HasImage() bool {
	e.o.mu.Lock()
	defer e.o.mu.Unlock()
	return e.o.recipe.ImageID != nil
}

// Selected returns the chosen file, if any
func (e *ImageEditor) Selected() (ImageFile, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.file == nil {
		return ImageFile{}, false
	}
	return *e.file, true
}

// Select chooses the file to upload
func (e *ImageEditor) Select(f ImageFile) error {
	if !strings.HasPrefix(f.ContentType, "image/") {
		return ErrNotImage
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state != StateOpen {
		return ErrNotOpen
	}
	e.file = &f
	return nil
}

// SelectPath reads a file from disk and selects it
func (e *ImageEditor) SelectPath(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading image: %w", err)
	}
	return e.Select(ImageFile{
		Name:        filepath.Base(path),
		ContentType: http.DetectContentType(data),
		Data:        data,
	})
}

// Cancel closes the editor without any network call
func (e *ImageEditor) Cancel() error {
	e.mu.Lock()
	if e.state != StateOpen {
		e.mu.Unlock()
		return ErrNotOpen
	}
	e.state = StateIdle
	e.mu.Unlock()
	e.close(nil)
	return nil
}

// Upload sends the selected file and records the new image id
func (e *ImageEditor) Upload(ctx context.Context) error {
	e.mu.Lock()
	if e.state != StateOpen {
		e.mu.Unlock()
		return ErrNotOpen
	}
	if e.file == nil {
		e.mu.Unlock()
		return ErrNoFile
	}
	file := *e.file
	e.state = StateSaving
	e.mu.Unlock()

	imageID, err := e.upload(ctx, file)
	if err != nil {
		e.o.fail(err, uploadAction)
		e.finish(nil)
		return err
	}

	e.o.apply(func(r *client.Recipe) {
		id := imageID
		r.ImageID = &id
	})
	e.finish(&ImageChange{ImageID: &imageID})
	return nil
}

// Delete removes the current image
func (e *ImageEditor) Delete(ctx context.Context) error {
	e.mu.Lock()
	if e.state != StateOpen {
		e.mu.Unlock()
		return ErrNotOpen
	}
	if !e.HasImage() {
		e.mu.Unlock()
		return ErrNoImage
	}
	e.state = StateSaving
	e.mu.Unlock()

	err := e.delete(ctx)
	if err != nil {
		e.o.fail(err, deleteAction)
		e.finish(nil)
		return err
	}

	e.o.apply(func(r *client.Recipe) {
		r.ImageID = nil
	})
	e.finish(&ImageChange{})
	return nil
}

func (e *ImageEditor) upload(ctx context.Context, file ImageFile) (string, error) {
	api := e.o.sessions.Client()
	if api == nil {
		return "", ErrNoSession
	}
	return api.UploadRecipeImage(ctx, e.o.recipeID(), bytes.NewReader(file.Data), file.ContentType)
}

func (e *ImageEditor) delete(ctx context.Context) error {
	api := e.o.sessions.Client()
	if api == nil {
		return ErrNoSession
	}
	return api.DeleteRecipeImage(ctx, e.o.recipeID())
}

func (e *ImageEditor) finish(result *ImageChange) {
	e.mu.Lock()
	e.state = StateIdle
	e.mu.Unlock()
	e.close(result)
}

func (e *ImageEditor) close(result *ImageChange) {
	e.o.slot.release()
	if e.onClose != nil {
		e.onClose(result)
	}
}
