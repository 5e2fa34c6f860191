package records

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"heritage-gallery/config"
	"heritage-gallery/internal/app/http/middleware"
	"heritage-gallery/internal/domain/content"
	"heritage-gallery/internal/logging"
)

const testSecret = "records-test-secret"

func init() {
	gin.SetMode(gin.TestMode)
}

type harness struct {
	t      *testing.T
	store  *memStore
	engine *gin.Engine
	media  string
}

func newHarness(t *testing.T, res Resource) *harness {
	t.Helper()
	config.JWT_SECRET = testSecret

	store := newMemStore()
	dir := t.TempDir()
	h := NewHandler(res, store, NewNameCache(store, time.Minute, logging.Discard()), Options{
		PageSize: 2,
		BaseURL:  "https://gallery.example.org/",
		MediaDir: dir,
	}, logging.Discard())

	r := gin.New()
	h.Register(r, middleware.AuthMiddleware())
	return &harness{t: t, store: store, engine: r, media: dir}
}

func token(t *testing.T, id uint, role, name, lastname string) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id":  id,
		"role":     role,
		"name":     name,
		"lastname": lastname,
		"exp":      time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return s
}

func (h *harness) do(method, path, tok, contentType string, body []byte) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}
	w := httptest.NewRecorder()
	h.engine.ServeHTTP(w, req)
	return w
}

func (h *harness) json(method, path, tok string, body any) *httptest.ResponseRecorder {
	b, err := json.Marshal(body)
	require.NoError(h.t, err)
	return h.do(method, path, tok, "application/json", b)
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func uptr(v uint) *uint { return &v }

func seedArtworks(h *harness, n int) {
	for i := 0; i < n; i++ {
		h.store.add(content.Item{
			Kind:  content.KindArtwork,
			Slug:  fmt.Sprintf("work-%d", i),
			Title: fmt.Sprintf("Work %d", i),
		})
	}
}

func TestList_Pagination(t *testing.T) {
	h := newHarness(t, Artworks)
	seedArtworks(h, 3)
	h.store.add(content.Item{Kind: content.KindMuseum, Slug: "louvre", Title: "Louvre"})

	w := h.do(http.MethodGet, "/artworks/?ordering=-created_at", "", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	first := decode[listResponse](t, w)
	assert.EqualValues(t, 3, first.Count)
	require.Len(t, first.Results, 2)
	assert.Equal(t, "work-2", first.Results[0].Slug)
	require.NotNil(t, first.Next)
	assert.Equal(t, "https://gallery.example.org/artworks/?ordering=-created_at&page=2", *first.Next)

	w = h.do(http.MethodGet, "/artworks/?ordering=-created_at&page=2", "", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	second := decode[listResponse](t, w)
	require.Len(t, second.Results, 1)
	assert.Equal(t, "work-0", second.Results[0].Slug)
	assert.Nil(t, second.Next)

	assert.Equal(t, http.StatusNotFound, h.do(http.MethodGet, "/artworks/?page=3", "", "", nil).Code)
	assert.Equal(t, http.StatusNotFound, h.do(http.MethodGet, "/artworks/?page=zero", "", "", nil).Code)
}

func TestList_FiltersAndOrdering(t *testing.T) {
	h := newHarness(t, Artworks)
	h.store.add(content.Item{Kind: content.KindArtwork, Slug: "b", Title: "Bestiary", Category: "manuscript"})
	h.store.add(content.Item{Kind: content.KindArtwork, Slug: "a", Title: "Atlas", Category: "map", Description: "engraved maps"})

	w := h.do(http.MethodGet, "/artworks/?search=MAPS", "", "", nil)
	page := decode[listResponse](t, w)
	require.Len(t, page.Results, 1)
	assert.Equal(t, "a", page.Results[0].Slug)

	w = h.do(http.MethodGet, "/artworks/?category=manuscript", "", "", nil)
	page = decode[listResponse](t, w)
	require.Len(t, page.Results, 1)
	assert.Equal(t, "b", page.Results[0].Slug)

	h.do(http.MethodGet, "/artworks/?ordering=title", "", "", nil)
	assert.Equal(t, "title ASC", h.store.lastList.Order)

	h.do(http.MethodGet, "/artworks/?ordering=price", "", "", nil)
	assert.Equal(t, "created_at DESC", h.store.lastList.Order)
}

func TestList_EmptyFirstPage(t *testing.T) {
	h := newHarness(t, Artworks)
	w := h.do(http.MethodGet, "/artworks/", "", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"count":0,"next":null,"results":[]}`, w.Body.String())
}

func TestGet_CountsView(t *testing.T) {
	h := newHarness(t, Artworks)
	h.store.add(content.Item{Kind: content.KindArtwork, Slug: "atlas", Title: "Atlas", ViewCount: 4})

	w := h.do(http.MethodGet, "/artworks/atlas/", "", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 5, decode[itemResponse](t, w).ViewCount)

	stored, _ := h.store.find("atlas")
	assert.Equal(t, 5, stored.ViewCount)

	assert.Equal(t, http.StatusNotFound, h.do(http.MethodGet, "/artworks/nope/", "", "", nil).Code)
}

func TestCreate_JSON(t *testing.T) {
	h := newHarness(t, Artworks)
	h.store.add(content.Item{Kind: content.KindArtwork, Slug: "sunflowers", Title: "Sunflowers"})
	h.store.names[7] = "Ada Lovelace"
	tok := token(t, 7, "creator", "Ada", "Lovelace")

	w := h.json(http.MethodPost, "/artworks/", tok, map[string]any{
		"title": "Sunflowers", "tags": []string{"oil", " still life "}, "year": 1888,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	out := decode[itemResponse](t, w)
	assert.True(t, strings.HasPrefix(out.Slug, "sunflowers-"))
	assert.Equal(t, []string{"oil", "still life"}, out.Tags)
	require.NotNil(t, out.Year)
	assert.Equal(t, 1888, *out.Year)
	assert.Equal(t, "Ada Lovelace", out.UploadedBy)
	require.NotNil(t, out.OwnerID)
	assert.EqualValues(t, 7, *out.OwnerID)
	assert.Zero(t, out.ViewCount)
}

func TestCreate_Rejections(t *testing.T) {
	h := newHarness(t, Artworks)
	creator := token(t, 7, "creator", "Ada", "Lovelace")

	assert.Equal(t, http.StatusUnauthorized, h.json(http.MethodPost, "/artworks/", "", map[string]any{"title": "x"}).Code)
	assert.Equal(t, http.StatusForbidden,
		h.json(http.MethodPost, "/artworks/", token(t, 8, "viewer", "V", "W"), map[string]any{"title": "x"}).Code)
	assert.Equal(t, http.StatusBadRequest, h.json(http.MethodPost, "/artworks/", creator, map[string]any{"title": "  "}).Code)
	assert.Equal(t, http.StatusBadRequest, h.json(http.MethodPost, "/artworks/", creator, map[string]any{"title": "x", "view_count": 9}).Code)
	assert.Equal(t, http.StatusBadRequest, h.json(http.MethodPost, "/artworks/", creator, map[string]any{"title": "x", "price": "9"}).Code)
	assert.Equal(t, http.StatusBadRequest, h.json(http.MethodPost, "/artworks/", creator, map[string]any{"title": "x", "year": 19.5}).Code)
	assert.Empty(t, h.store.items)
}

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

func multipartBody(t *testing.T, values map[string][]string, file []byte) ([]byte, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, vs := range values {
		for _, v := range vs {
			require.NoError(t, mw.WriteField(k, v))
		}
	}
	if file != nil {
		fw, err := mw.CreateFormFile("image", "Leaf.PNG")
		require.NoError(t, err)
		_, err = fw.Write(file)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	return buf.Bytes(), mw.FormDataContentType()
}

func TestCreate_MultipartWithImage(t *testing.T) {
	h := newHarness(t, Artworks)
	tok := token(t, 7, "creator", "Ada", "Lovelace")

	body, ct := multipartBody(t, map[string][]string{
		"title": {"<b>Herbarium</b>"},
		"tags":  {"botany", "leaf"},
		"year":  {""},
	}, pngHeader)

	w := h.do(http.MethodPost, "/artworks/", tok, ct, body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	out := decode[itemResponse](t, w)
	assert.Equal(t, "Herbarium", out.Title)
	assert.Equal(t, []string{"botany", "leaf"}, out.Tags)
	assert.Nil(t, out.Year)
	require.NotNil(t, out.Image)
	assert.True(t, strings.HasPrefix(*out.Image, "https://gallery.example.org/media/"))
	assert.True(t, strings.HasSuffix(*out.Image, ".png"))

	require.Len(t, h.store.images, 1)
	data, err := os.ReadFile(filepath.Join(h.media, h.store.images[0].StoredName))
	require.NoError(t, err)
	assert.Equal(t, pngHeader, data)

	notImage, ct := multipartBody(t, map[string][]string{"title": {"x"}}, []byte("plain text"))
	assert.Equal(t, http.StatusBadRequest, h.do(http.MethodPost, "/artworks/", tok, ct, notImage).Code)
}

func TestUpload_RemovedWhenRecordNotPersisted(t *testing.T) {
	h := newHarness(t, Artworks)
	h.store.add(content.Item{Kind: content.KindArtwork, Slug: "atlas", Title: "Atlas", UserID: uptr(7)})
	h.store.failWrites = errors.New("db down")
	tok := token(t, 7, "creator", "Ada", "Lovelace")

	body, ct := multipartBody(t, map[string][]string{"title": {"Herbarium"}}, pngHeader)
	assert.Equal(t, http.StatusInternalServerError, h.do(http.MethodPost, "/artworks/", tok, ct, body).Code)

	body, ct = multipartBody(t, map[string][]string{"title": {"Atlas Maior"}}, pngHeader)
	assert.Equal(t, http.StatusInternalServerError, h.do(http.MethodPatch, "/artworks/atlas/", tok, ct, body).Code)

	require.Len(t, h.store.images, 2)
	entries, err := os.ReadDir(h.media)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestUpdate_SparseAndOwnership(t *testing.T) {
	h := newHarness(t, Artworks)
	year := 1570
	h.store.add(content.Item{
		Kind: content.KindArtwork, Slug: "atlas", Title: "Atlas", Category: "map",
		TagList: "maps", Year: &year, UserID: uptr(7), UploadedBy: "Ada Lovelace",
	})
	owner := token(t, 7, "creator", "Ada", "Lovelace")
	other := token(t, 8, "creator", "Grace", "Hopper")
	admin := token(t, 1, "admin", "Root", "")

	w := h.json(http.MethodPatch, "/artworks/atlas/", owner, map[string]any{"title": "Atlas Maior", "year": nil})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	out := decode[itemResponse](t, w)
	assert.Equal(t, "Atlas Maior", out.Title)
	assert.Nil(t, out.Year)
	assert.Equal(t, "map", out.Category)
	assert.Equal(t, []string{"maps"}, out.Tags)
	assert.Equal(t, "atlas", out.Slug)

	assert.Equal(t, http.StatusForbidden, h.json(http.MethodPatch, "/artworks/atlas/", other, map[string]any{"title": "Mine"}).Code)
	assert.Equal(t, http.StatusBadRequest, h.json(http.MethodPatch, "/artworks/atlas/", owner, map[string]any{"title": ""}).Code)
	assert.Equal(t, http.StatusBadRequest, h.json(http.MethodPatch, "/artworks/atlas/", owner, map[string]any{"slug": "new"}).Code)
	assert.Equal(t, http.StatusNotFound, h.json(http.MethodPatch, "/artworks/missing/", owner, map[string]any{"title": "x"}).Code)

	w = h.json(http.MethodPatch, "/artworks/atlas/", admin, map[string]any{"tags": []string{"a", "b"}})
	require.Equal(t, http.StatusOK, w.Code)
	stored, _ := h.store.find("atlas")
	assert.Equal(t, "a,b", stored.TagList)
	assert.Equal(t, "Atlas Maior", stored.Title)
}

func TestArchives_DisplayNameOwnership(t *testing.T) {
	h := newHarness(t, Archives)
	h.store.add(content.Item{Kind: content.KindArchive, Slug: "ledger", Title: "Ledger", UploadedBy: "Ada Lovelace"})

	w := h.do(http.MethodGet, "/archives/ledger/", "", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var raw map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &raw))
	assert.NotContains(t, raw, "owner_id")
	assert.Equal(t, "Ada Lovelace", raw["uploaded_by"])

	ada := token(t, 7, "creator", "Ada", "Lovelace")
	grace := token(t, 8, "creator", "Grace", "Hopper")
	assert.Equal(t, http.StatusForbidden, h.do(http.MethodDelete, "/archives/ledger/", grace, "", nil).Code)
	assert.Equal(t, http.StatusNoContent, h.do(http.MethodDelete, "/archives/ledger/", ada, "", nil).Code)
	_, found := h.store.find("ledger")
	assert.False(t, found)
}

func TestDelete(t *testing.T) {
	h := newHarness(t, Artworks)
	h.store.add(content.Item{Kind: content.KindArtwork, Slug: "atlas", Title: "Atlas", UserID: uptr(7)})
	owner := token(t, 7, "creator", "Ada", "Lovelace")

	assert.Equal(t, http.StatusUnauthorized, h.do(http.MethodDelete, "/artworks/atlas/", "", "", nil).Code)
	assert.Equal(t, http.StatusNoContent, h.do(http.MethodDelete, "/artworks/atlas/", owner, "", nil).Code)
	assert.Equal(t, http.StatusNotFound, h.do(http.MethodDelete, "/artworks/atlas/", owner, "", nil).Code)
}

func TestNameCache(t *testing.T) {
	store := newMemStore()
	store.names[7] = "Ada Lovelace"
	nc := NewNameCache(store, time.Minute, logging.Discard())

	got := nc.Resolve(t.Context(), []uint{7, 7, 9})
	assert.Equal(t, map[uint]string{7: "Ada Lovelace"}, got)
	assert.Equal(t, 1, store.nameCalls)

	nc.Resolve(t.Context(), []uint{7})
	assert.Equal(t, 1, store.nameCalls)
}
