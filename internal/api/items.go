package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/erazemk/lostfound/internal/events"
	"github.com/erazemk/lostfound/internal/imaging"
	"github.com/erazemk/lostfound/internal/links"
	"github.com/erazemk/lostfound/internal/model"
	"github.com/erazemk/lostfound/internal/notify"
	"github.com/erazemk/lostfound/internal/repo"
)

// ItemsHandler handles item endpoints.
type ItemsHandler struct {
	Items         *repo.Items
	Notifications *notify.Registry
	Bus           events.Bus
	MaxImageBytes int64
	Logger        *slog.Logger
}

type itemLinks struct {
	Map    string `json:"map"`
	Phone  string `json:"phone,omitempty"`
	Email  string `json:"email,omitempty"`
	Detail string `json:"detail"`
}

type itemResponse struct {
	model.Item
	Links itemLinks `json:"links"`
}

func newItemResponse(item *model.Item) itemResponse {
	l := itemLinks{
		Map:    links.MapURL(item.Location),
		Detail: model.ItemLink(item.ID),
	}
	if item.Contact != nil {
		if item.Contact.Phone != "" {
			l.Phone = links.Tel(item.Contact.Phone)
		}
		if item.Contact.Email != "" {
			l.Email = links.Mailto(item.Contact.Email)
		}
	}
	return itemResponse{Item: *item, Links: l}
}

type commentRequest struct {
	Text string `json:"text"`
}

type trackingRequest struct {
	TrackingStatus string `json:"tracking_status"`
}

// List handles GET /api/items. It also runs a match scan for the caller so
// new potential matches show up as notifications.
func (h *ItemsHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := repo.Filter{
		Query:      q.Get("q"),
		Categories: q["category"],
		Tracking:   q["tracking"],
		Status:     q.Get("status"),
	}

	items, err := h.Items.Search(r.Context(), f)
	if err != nil {
		writeError(w, r, err, "failed to list items")
		return
	}

	if claims := GetClaims(r.Context()); claims != nil {
		if _, err := h.Notifications.Scan(r.Context(), claims.ID); err != nil {
			h.Logger.Error("failed to scan for matches", "session", claims.ID, "error", err)
		}
	}

	out := make([]itemResponse, 0, len(items))
	for i := range items {
		out = append(out, newItemResponse(&items[i]))
	}
	jsonResponse(w, http.StatusOK, out)
}

// Create handles POST /api/items.
func (h *ItemsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var item model.Item
	if !h.decodeItem(w, r, &item) {
		return
	}

	if err := h.normaliseImage(&item); err != nil {
		writeError(w, r, err, "failed to process image")
		return
	}
	if sess := GetSession(r.Context()); sess != nil {
		item.ReportedBy = sess.ID
	}
	item.Comments = nil

	id, err := h.Items.Save(r.Context(), &item)
	if err != nil {
		writeError(w, r, err, "failed to create item")
		return
	}

	saved, err := h.Items.ByID(r.Context(), id)
	if err != nil || saved == nil {
		writeError(w, r, err, "failed to get item")
		return
	}

	h.Logger.Info("item reported", "item", id, "status", saved.Status)
	h.publish(r.Context(), events.ItemSaved, saved)
	jsonResponse(w, http.StatusCreated, newItemResponse(saved))
}

// Get handles GET /api/items/{id}.
func (h *ItemsHandler) Get(w http.ResponseWriter, r *http.Request) {
	item, err := h.Items.ByID(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err, "failed to get item")
		return
	}
	if item == nil {
		jsonError(w, http.StatusNotFound, "item not found")
		return
	}
	jsonResponse(w, http.StatusOK, newItemResponse(item))
}

// Update handles PUT /api/items/{id}.
func (h *ItemsHandler) Update(w http.ResponseWriter, r *http.Request) {
	var edit model.Item
	if !h.decodeItem(w, r, &edit) {
		return
	}
	edit.ID = r.PathValue("id")

	if err := h.normaliseImage(&edit); err != nil {
		writeError(w, r, err, "failed to process image")
		return
	}

	item, err := h.Items.Update(r.Context(), &edit)
	if err != nil {
		writeError(w, r, err, "failed to update item")
		return
	}

	h.publish(r.Context(), events.ItemSaved, item)
	if item.TrackingStatus == model.TrackingResolved {
		h.publish(r.Context(), events.ItemResolved, item)
	}
	jsonResponse(w, http.StatusOK, newItemResponse(item))
}

// Delete handles DELETE /api/items/{id}.
func (h *ItemsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	item, err := h.Items.ByID(r.Context(), id)
	if err != nil {
		writeError(w, r, err, "failed to get item")
		return
	}
	if item == nil {
		jsonError(w, http.StatusNotFound, "item not found")
		return
	}

	if err := h.Items.Delete(r.Context(), id); err != nil {
		writeError(w, r, err, "failed to delete item")
		return
	}

	h.Logger.Info("item deleted", "item", id)
	h.publish(r.Context(), events.ItemDeleted, item)
	jsonResponse(w, http.StatusOK, map[string]string{"message": "item deleted"})
}

// AddComment handles POST /api/items/{id}/comments.
func (h *ItemsHandler) AddComment(w http.ResponseWriter, r *http.Request) {
	var req commentRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	author := ""
	if sess := GetSession(r.Context()); sess != nil {
		author = sess.DisplayName()
	}

	item, comment, err := h.Items.AddComment(r.Context(), r.PathValue("id"), req.Text, author)
	if err != nil {
		writeError(w, r, err, "failed to add comment")
		return
	}

	h.notify(r.Context(), notify.CommentAdded(item))
	h.publish(r.Context(), events.ItemCommented, item)
	jsonResponse(w, http.StatusCreated, comment)
}

// SetTracking handles PUT /api/items/{id}/tracking.
func (h *ItemsHandler) SetTracking(w http.ResponseWriter, r *http.Request) {
	var req trackingRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	item, err := h.Items.SetTrackingStatus(r.Context(), r.PathValue("id"), req.TrackingStatus)
	if err != nil {
		writeError(w, r, err, "failed to update tracking status")
		return
	}

	h.notify(r.Context(), notify.StatusChanged(item))
	h.publish(r.Context(), events.ItemSaved, item)
	if item.TrackingStatus == model.TrackingResolved {
		h.publish(r.Context(), events.ItemResolved, item)
	}
	jsonResponse(w, http.StatusOK, newItemResponse(item))
}

// UploadImage handles PUT /api/items/{id}/image.
func (h *ItemsHandler) UploadImage(w http.ResponseWriter, r *http.Request) {
	limit := h.maxImageBytes()
	r.Body = http.MaxBytesReader(w, r.Body, limit+1<<20)

	if err := r.ParseMultipartForm(limit); err != nil {
		jsonError(w, http.StatusBadRequest, "file too large or invalid multipart form")
		return
	}

	file, _, err := r.FormFile("image")
	if err != nil {
		jsonError(w, http.StatusBadRequest, "image file required")
		return
	}
	defer file.Close()

	photo, err := imaging.Process(file, limit)
	if err != nil {
		writeError(w, r, err, "failed to process image")
		return
	}

	id := r.PathValue("id")
	if err := h.Items.AttachImage(r.Context(), id, photo.DataURL()); err != nil {
		writeError(w, r, err, "failed to save image")
		return
	}

	jsonResponse(w, http.StatusOK, map[string]string{"message": "image uploaded"})
}

// GetImage handles GET /api/items/{id}/image.
func (h *ItemsHandler) GetImage(w http.ResponseWriter, r *http.Request) {
	dataURL, ok, err := h.Items.Image(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err, "failed to get image")
		return
	}
	if !ok {
		jsonError(w, http.StatusNotFound, "no image")
		return
	}

	data, err := imaging.ParseDataURL(dataURL)
	if err != nil {
		writeError(w, r, err, "failed to decode image")
		return
	}

	mime := imaging.MIME(dataURL)
	if mime == "" {
		mime = http.DetectContentType(data)
	}
	w.Header().Set("Content-Type", mime)
	w.Header().Set("Cache-Control", "private, max-age=3600")
	w.Write(data)
}

// Stats handles GET /api/stats.
func (h *ItemsHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Items.Stats(r.Context())
	if err != nil {
		writeError(w, r, err, "failed to compute stats")
		return
	}
	jsonResponse(w, http.StatusOK, stats)
}

// decodeItem reads an item body, bounded by the photo limit plus base64
// overhead. It writes the error response itself and reports success.
func (h *ItemsHandler) decodeItem(w http.ResponseWriter, r *http.Request, item *model.Item) bool {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxImageBytes()*4/3+1<<20)
	if err := decodeJSON(r, item); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			jsonError(w, http.StatusRequestEntityTooLarge, "request body too large")
			return false
		}
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

// normaliseImage re-encodes an inline photo so stored images are bounded
// in size. A data URL sent as image counts as the inline photo; any other
// client-supplied image reference is dropped.
func (h *ItemsHandler) normaliseImage(item *model.Item) error {
	if item.ImageData == "" && strings.HasPrefix(item.Image, "data:") {
		item.ImageData = item.Image
	}
	item.Image = ""
	if item.ImageData == "" {
		return nil
	}
	data, err := imaging.NormaliseDataURL(item.ImageData, h.maxImageBytes())
	if err != nil {
		return err
	}
	item.ImageData = data
	return nil
}

func (h *ItemsHandler) maxImageBytes() int64 {
	if h.MaxImageBytes > 0 {
		return h.MaxImageBytes
	}
	return imaging.DefaultMaxBytes
}

// notify adds n to the caller's notification list.
func (h *ItemsHandler) notify(ctx context.Context, n model.Notification) {
	if claims := GetClaims(ctx); claims != nil {
		h.Notifications.Open(claims.ID).Store.Add(n)
	}
}

func (h *ItemsHandler) publish(ctx context.Context, key string, item *model.Item) {
	ev := events.Event{Key: key, ItemID: item.ID, Title: item.Title}
	if claims := GetClaims(ctx); claims != nil {
		ev.Actor = claims.UserID
	}
	if err := h.Bus.Publish(ctx, ev); err != nil {
		h.Logger.Error("failed to publish event", "key", key, "item", item.ID, "error", err)
	}
}
