// Package records serves the gallery collection resources: paginated,
// searchable lists plus create, sparse update and delete of content items.
package records

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/microcosm-cc/bluemonday"

	"heritage-gallery/internal/app/http/middleware"
	"heritage-gallery/internal/domain/access"
	"heritage-gallery/internal/domain/content"
	"heritage-gallery/internal/domain/media"
	"heritage-gallery/internal/logging"
)

type Options struct {
	PageSize int
	// BaseURL prefixes next-page links and image URLs.
	BaseURL  string
	MediaDir string
}

type Handler struct {
	res    Resource
	store  Store
	names  *NameCache
	opts   Options
	policy *bluemonday.Policy
	log    logging.Logger
}

func NewHandler(res Resource, store Store, names *NameCache, opts Options, log logging.Logger) *Handler {
	if opts.PageSize <= 0 {
		opts.PageSize = 12
	}
	opts.BaseURL = strings.TrimRight(opts.BaseURL, "/")
	return &Handler{
		res:    res,
		store:  store,
		names:  names,
		opts:   opts,
		policy: bluemonday.StrictPolicy(),
		log:    log.With("resource", res.Path),
	}
}

// Register mounts the resource. Reads are public; writes go through auth.
func (h *Handler) Register(r gin.IRouter, auth ...gin.HandlerFunc) {
	g := r.Group("/" + h.res.Path)
	g.GET("/", h.List)
	g.GET("/:slug/", h.Get)

	w := g.Group("/", auth...)
	w.POST("/", h.Create)
	w.PATCH("/:slug/", h.Update)
	w.DELETE("/:slug/", h.Delete)
}

// ------------------------------
// GET /<res>/?search=&category=&ordering=&page=
// ------------------------------
func (h *Handler) List(c *gin.Context) {
	page := 1
	if raw := c.Query("page"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			c.JSON(http.StatusNotFound, gin.H{"error": "Invalid page."})
			return
		}
		page = n
	}

	_, order := resolveOrdering(c.Query("ordering"))
	params := ListParams{
		Search:   c.Query("search"),
		Category: c.Query("category"),
		Order:    order,
		Offset:   (page - 1) * h.opts.PageSize,
		Limit:    h.opts.PageSize,
	}

	ctx := c.Request.Context()
	items, total, err := h.store.List(ctx, h.res.Kind, params)
	if err != nil {
		h.log.Error(ctx, "list failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load records"})
		return
	}
	if page > 1 && int64(params.Offset) >= total {
		c.JSON(http.StatusNotFound, gin.H{"error": "Invalid page."})
		return
	}

	names := h.resolveNames(c, items...)
	out := listResponse{Count: total, Results: make([]itemResponse, 0, len(items))}
	for _, it := range items {
		out.Results = append(out.Results, toItemResponse(it, h.res, names, h.opts.BaseURL))
	}
	if int64(params.Offset+len(items)) < total {
		next := h.pageURL(c.Request.URL, page+1)
		out.Next = &next
	}

	c.JSON(http.StatusOK, out)
}

// ------------------------------
// GET /<res>/:slug/ (counts a view)
// ------------------------------
func (h *Handler) Get(c *gin.Context) {
	it, ok := h.load(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	if err := h.store.IncrementViews(ctx, it.ID); err != nil {
		h.log.Warn(ctx, "increment views", "slug", it.Slug, "error", err)
	} else {
		it.ViewCount++
	}

	c.JSON(http.StatusOK, toItemResponse(it, h.res, h.resolveNames(c, it), h.opts.BaseURL))
}

// ------------------------------
// POST /<res>/ (creators and admins)
// ------------------------------
func (h *Handler) Create(c *gin.Context) {
	actor := middleware.CurrentActor(c)
	if !access.CanCreate(actor) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Access denied"})
		return
	}

	ch, ok := h.parse(c, true)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	slug, err := content.UniqueSlug(ch.title, func(s string) (bool, error) {
		return h.store.SlugTaken(ctx, s)
	})
	if err != nil {
		h.fail(c, "generate slug", err)
		return
	}

	it := content.Item{
		Kind:       h.res.Kind,
		Slug:       slug,
		UploadedBy: actor.DisplayName(),
	}
	if id, err := strconv.ParseUint(actor.ID, 10, 0); err == nil {
		uid := uint(id)
		it.UserID = &uid
	}
	ch.apply(&it)

	img, ok := h.attachImage(c, &it)
	if !ok {
		return
	}
	if err := h.store.Create(ctx, &it); err != nil {
		h.discardUpload(ctx, img)
		h.fail(c, "create", err)
		return
	}

	h.log.Info(ctx, "record created", "slug", it.Slug, "user", actor.ID)
	c.JSON(http.StatusCreated, toItemResponse(it, h.res, h.resolveNames(c, it), h.opts.BaseURL))
}

// ------------------------------
// PATCH /<res>/:slug/ (owner or admin)
// ------------------------------
func (h *Handler) Update(c *gin.Context) {
	it, ok := h.loadForWrite(c)
	if !ok {
		return
	}

	ch, ok := h.parse(c, false)
	if !ok {
		return
	}
	ch.apply(&it)

	img, ok := h.attachImage(c, &it)
	if !ok {
		return
	}
	if err := h.store.Save(c.Request.Context(), &it); err != nil {
		h.discardUpload(c.Request.Context(), img)
		h.fail(c, "update", err)
		return
	}

	c.JSON(http.StatusOK, toItemResponse(it, h.res, h.resolveNames(c, it), h.opts.BaseURL))
}

// ------------------------------
// DELETE /<res>/:slug/ (owner or admin)
// ------------------------------
func (h *Handler) Delete(c *gin.Context) {
	it, ok := h.loadForWrite(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	if err := h.store.Delete(ctx, &it); err != nil {
		h.fail(c, "delete", err)
		return
	}

	h.log.Info(ctx, "record deleted", "slug", it.Slug, "user", middleware.CurrentActor(c).ID)
	c.Status(http.StatusNoContent)
}

/* ---------------- helpers ---------------- */

func (h *Handler) load(c *gin.Context) (content.Item, bool) {
	it, err := h.store.Get(c.Request.Context(), h.res.Kind, c.Param("slug"))
	if errors.Is(err, ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found."})
		return content.Item{}, false
	}
	if err != nil {
		h.fail(c, "load", err)
		return content.Item{}, false
	}
	return it, true
}

func (h *Handler) loadForWrite(c *gin.Context) (content.Item, bool) {
	it, ok := h.load(c)
	if !ok {
		return it, false
	}
	if !access.CanMutate(middleware.CurrentActor(c), ownership(it)) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Access denied"})
		return it, false
	}
	return it, true
}

func ownership(it content.Item) access.Ownership {
	o := access.Ownership{UploadedBy: it.UploadedBy}
	if it.UserID != nil {
		o.OwnerID = access.UserID(*it.UserID)
	}
	return o
}

// parse reads a JSON or multipart body. It answers 400 itself.
func (h *Handler) parse(c *gin.Context, creating bool) (changes, bool) {
	var (
		ch  changes
		err error
	)
	if c.ContentType() == gin.MIMEMultipartPOSTForm {
		form, ferr := c.MultipartForm()
		if ferr != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Malformed form data"})
			return ch, false
		}
		ch, err = parseForm(form.Value, h.policy)
	} else {
		raw, rerr := io.ReadAll(c.Request.Body)
		if rerr != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid body"})
			return ch, false
		}
		body, derr := decodeStrict(raw)
		if derr != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Malformed JSON"})
			return ch, false
		}
		ch, err = parseJSON(body)
	}
	if err == nil {
		err = ch.validate(creating)
	}

	var fe *fieldError
	if errors.As(err, &fe) {
		c.JSON(http.StatusBadRequest, gin.H{"error": fe.Error(), "field": fe.field})
		return ch, false
	}
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return ch, false
	}
	return ch, true
}

// attachImage stores an uploaded image, if any, and points it at it. The
// returned image is nil when the request carried none.
func (h *Handler) attachImage(c *gin.Context, it *content.Item) (*media.Image, bool) {
	if c.ContentType() != gin.MIMEMultipartPOSTForm {
		return nil, true
	}
	fh, err := c.FormFile(imageField)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, true
	}
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Malformed form data"})
		return nil, false
	}

	img, err := storeUpload(h.opts.MediaDir, fh)
	var fe *fieldError
	if errors.As(err, &fe) {
		c.JSON(http.StatusBadRequest, gin.H{"error": fe.Error(), "field": fe.field})
		return nil, false
	}
	if err != nil {
		h.fail(c, "store upload", err)
		return nil, false
	}
	if err := h.store.SaveImage(c.Request.Context(), img); err != nil {
		h.discardUpload(c.Request.Context(), img)
		h.fail(c, "save image", err)
		return nil, false
	}

	// TODO: remove the replaced image file once nothing else references it.
	it.ImageID = &img.ID
	it.Image = img
	return img, true
}

// discardUpload removes the file of an upload that never got attached.
func (h *Handler) discardUpload(ctx context.Context, img *media.Image) {
	if img == nil || img.StoredName == "" {
		return
	}
	err := os.Remove(filepath.Join(h.opts.MediaDir, img.StoredName))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		h.log.Warn(ctx, "remove orphaned upload", "file", img.StoredName, "error", err)
	}
}

func (h *Handler) resolveNames(c *gin.Context, items ...content.Item) map[uint]string {
	if h.names == nil {
		return nil
	}
	ids := make([]uint, 0, len(items))
	for _, it := range items {
		if it.UserID != nil {
			ids = append(ids, *it.UserID)
		}
	}
	return h.names.Resolve(c.Request.Context(), ids)
}

func (h *Handler) pageURL(current *url.URL, page int) string {
	q := current.Query()
	q.Set("page", strconv.Itoa(page))
	return h.opts.BaseURL + current.Path + "?" + q.Encode()
}

func (h *Handler) fail(c *gin.Context, op string, err error) {
	if errors.Is(err, ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found."})
		return
	}
	h.log.Error(c.Request.Context(), op+" failed", "slug", c.Param("slug"), "error", err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to " + op + " record"})
}
