package handler_test

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/Medard30/StudyLoop/internal/handler"
	"github.com/Medard30/StudyLoop/internal/media"
	"github.com/Medard30/StudyLoop/internal/middleware"
	"github.com/Medard30/StudyLoop/internal/model"
	"github.com/Medard30/StudyLoop/internal/repository/memstore"
	"github.com/Medard30/StudyLoop/internal/router"
	"github.com/Medard30/StudyLoop/internal/service"
)

type testBoard struct {
	t       *testing.T
	app     *fiber.App
	store   *memstore.Store
	uploads *media.Store
	session string
}

func newTestBoard(t *testing.T) *testBoard {
	t.Helper()
	return newTestBoardWithLimit(t, 0)
}

// newTestBoardWithLimit builds a board whose server rejects bodies over
// bodyLimit bytes (0 keeps fiber's default).
func newTestBoardWithLimit(t *testing.T, bodyLimit int) *testBoard {
	t.Helper()

	store := memstore.New()
	uploads, err := media.NewStore(t.TempDir())
	require.NoError(t, err)

	users := service.NewUserService(store, store)
	author, err := users.EnsureAuthor(t.Context(), "DemoUser")
	require.NoError(t, err)

	var cache *service.CacheService
	engage := service.NewEngagementService(store, cache)
	posts := service.NewPostService(store, store, engage, cache, zerolog.Nop())
	replies := service.NewReplyService(store, store, uploads, 1<<20, cache, zerolog.Nop())

	app := fiber.New(fiber.Config{
		BodyLimit:    bodyLimit,
		ErrorHandler: handler.ErrorHandler,
	})
	router.Setup(app, &router.Handlers{
		Post:       handler.NewPostHandler(posts, author.ID),
		Reply:      handler.NewReplyHandler(replies, author.ID),
		Engagement: handler.NewEngagementHandler(engage),
		Feed:       handler.NewFeedHandler(service.NewFeedService(store)),
		Media:      handler.NewMediaHandler(uploads),
		Stats:      handler.NewStatsHandler(users),
		Health:     handler.NewHealthHandler(nil, nil),
	}, router.Options{CORSOrigins: "*"})

	return &testBoard{t: t, app: app, store: store, uploads: uploads, session: uuid.NewString()}
}

func (b *testBoard) do(req *http.Request) *http.Response {
	b.t.Helper()
	req.AddCookie(&http.Cookie{Name: middleware.SessionCookie, Value: b.session})
	resp, err := b.app.Test(req)
	require.NoError(b.t, err)
	return resp
}

func (b *testBoard) get(target string) *http.Response {
	return b.do(httptest.NewRequest(fiber.MethodGet, target, nil))
}

func (b *testBoard) postForm(target string, form url.Values, referer string) *http.Response {
	req := httptest.NewRequest(fiber.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationForm)
	if referer != "" {
		req.Header.Set(fiber.HeaderReferer, referer)
	}
	return b.do(req)
}

func (b *testBoard) postMultipart(target string, fields map[string]string, fileName string, fileBody []byte) *http.Response {
	b.t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	for k, v := range fields {
		require.NoError(b.t, w.WriteField(k, v))
	}
	if fileName != "" {
		fw, err := w.CreateFormFile("video_file", fileName)
		require.NoError(b.t, err)
		_, err = fw.Write(fileBody)
		require.NoError(b.t, err)
	}
	require.NoError(b.t, w.Close())

	req := httptest.NewRequest(fiber.MethodPost, target, &body)
	req.Header.Set(fiber.HeaderContentType, w.FormDataContentType())
	return b.do(req)
}

func (b *testBoard) seedPost(title, course, tags string) {
	b.t.Helper()
	resp := b.postForm("/new", url.Values{
		"title":  {title},
		"course": {course},
		"tags":   {tags},
		"prompt": {"Explain " + title},
		"honor":  {"on"},
	}, "")
	require.Equal(b.t, fiber.StatusSeeOther, resp.StatusCode)
	require.Equal(b.t, "/", resp.Header.Get(fiber.HeaderLocation))
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

type errorBody struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
		Field   string `json:"field"`
	} `json:"error"`
	Form map[string]any `json:"form"`
}

func TestCreatePostAndList(t *testing.T) {
	b := newTestBoard(t)
	b.seedPost("Unit circle", "MATH 2413", "#Trig, trig , Angles")

	feed := decode[model.FeedResponse](t, b.get("/"))
	require.Len(t, feed.Posts, 1)
	require.Equal(t, "trig,angles", feed.Posts[0].Tags)
	require.Equal(t, []string{"trig", "angles"}, feed.Posts[0].TagList)
	require.Zero(t, feed.Posts[0].ReplyCount)
	require.Nil(t, feed.Posts[0].QAvg)
	require.Equal(t, model.SortNewest, feed.State.Sort)
}

func TestCreatePostValidation(t *testing.T) {
	b := newTestBoard(t)

	resp := b.postForm("/new", url.Values{
		"title":  {"  Limits "},
		"course": {"MATH 2413"},
		"tags":   {"#Calc, CALC"},
		"prompt": {"Why does the limit exist?"},
	}, "")
	require.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)

	body := decode[errorBody](t, resp)
	require.Equal(t, "VALIDATION_FAILED", body.Error.Code)
	require.Equal(t, "honor", body.Error.Field)
	require.Equal(t, "Please fill all fields and accept the Honor Code.", body.Error.Message)
	require.Equal(t, "Limits", body.Form["title"])
	require.Equal(t, "calc", body.Form["tags"])

	feed := decode[model.FeedResponse](t, b.get("/"))
	require.Empty(t, feed.Posts)
}

func TestFeedFiltersAndSort(t *testing.T) {
	b := newTestBoard(t)
	b.seedPost("Unit circle", "MATH 2413", "trigonometry")
	b.seedPost("Identity proof", "MATH 2413", "trig")
	b.seedPost("Free body diagram", "PHYS 1401", "forces")

	feed := decode[model.FeedResponse](t, b.get("/?tag=%23TRIG"))
	require.Len(t, feed.Posts, 1)
	require.Equal(t, "Identity proof", feed.Posts[0].Title)

	feed = decode[model.FeedResponse](t, b.get("/?course=math%202413"))
	require.Len(t, feed.Posts, 2)
	require.Equal(t, "Identity proof", feed.Posts[0].Title, "newest first")

	feed = decode[model.FeedResponse](t, b.get("/?q=BODY&sort=bogus"))
	require.Len(t, feed.Posts, 1)
	require.Equal(t, model.SortNewest, feed.State.Sort)
}

func TestPostDetailNotFound(t *testing.T) {
	b := newTestBoard(t)

	for _, target := range []string{"/post/999", "/post/abc", "/post/0"} {
		resp := b.get(target)
		require.Equal(t, fiber.StatusNotFound, resp.StatusCode, target)
		require.Equal(t, "NOT_FOUND", decode[errorBody](t, resp).Error.Code)
	}
}

func TestReplyWithURL(t *testing.T) {
	b := newTestBoard(t)
	b.seedPost("Unit circle", "MATH 2413", "trig")

	resp := b.postForm("/post/1/reply", url.Values{
		"video_url":  {"https://youtu.be/dQw4w9WgXcQ?t=10"},
		"transcript": {"First, draw the circle."},
	}, "")
	require.Equal(t, fiber.StatusSeeOther, resp.StatusCode)
	require.Equal(t, "/post/1", resp.Header.Get(fiber.HeaderLocation))

	detail := decode[model.PostDetail](t, b.get("/post/1"))
	require.Len(t, detail.Replies, 1)
	require.Equal(t, model.VideoYouTube, detail.Replies[0].Video.Kind)
	require.Equal(t, "https://www.youtube.com/embed/dQw4w9WgXcQ", detail.Replies[0].Video.PlayableRef)
	require.NotNil(t, detail.MinutesToFirstReply)
	require.Equal(t, 0, *detail.MinutesToFirstReply)
	require.NotNil(t, detail.QAvg)
	require.Equal(t, 0.0, *detail.QAvg)
}

func TestReplyWithUpload(t *testing.T) {
	b := newTestBoard(t)
	b.seedPost("Unit circle", "MATH 2413", "trig")

	video := []byte("not really an mp4")
	resp := b.postMultipart("/post/1/reply", map[string]string{
		"transcript": "Watch the animation.",
		"video_url":  "https://example.com/ignored",
	}, "my clip.MP4", video)
	require.Equal(t, fiber.StatusSeeOther, resp.StatusCode)

	detail := decode[model.PostDetail](t, b.get("/post/1"))
	require.Len(t, detail.Replies, 1)
	reply := detail.Replies[0]
	require.Empty(t, reply.VideoURL, "upload wins over url")
	require.NotEmpty(t, reply.VideoPath)
	require.Equal(t, model.VideoHTML5, reply.Video.Kind)
	require.Equal(t, service.UploadsPath+reply.VideoPath, reply.Video.PlayableRef)

	served := b.get(reply.Video.PlayableRef)
	require.Equal(t, fiber.StatusOK, served.StatusCode)
	got, err := io.ReadAll(served.Body)
	require.NoError(t, err)
	require.Equal(t, video, got)
}

func TestReplyOverBodyLimitIsValidationFailure(t *testing.T) {
	b := newTestBoardWithLimit(t, 64<<10)
	b.seedPost("Unit circle", "MATH 2413", "trig")

	resp := b.postMultipart("/post/1/reply", map[string]string{
		"transcript": "Too long to watch.",
	}, "huge.mp4", bytes.Repeat([]byte("x"), 256<<10))
	require.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)

	body := decode[errorBody](t, resp)
	require.Equal(t, "VALIDATION_FAILED", body.Error.Code)
	require.Equal(t, "video_file", body.Error.Field)
	require.Equal(t, "Video file is too large.", body.Error.Message)

	detail := decode[model.PostDetail](t, b.get("/post/1"))
	require.Empty(t, detail.Replies)
}

func TestReplyValidation(t *testing.T) {
	b := newTestBoard(t)
	b.seedPost("Unit circle", "MATH 2413", "trig")

	tests := []struct {
		name      string
		fields    map[string]string
		file      string
		wantField string
	}{
		{"no video", map[string]string{"transcript": "text"}, "", "video"},
		{"bad extension", map[string]string{"transcript": "text"}, "run.exe", "video_file"},
		{"no transcript", map[string]string{"video_url": "https://youtu.be/abc"}, "", "transcript"},
		{"blank transcript", map[string]string{"video_url": "https://youtu.be/abc", "transcript": "   "}, "", "transcript"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := b.postMultipart("/post/1/reply", tt.fields, tt.file, []byte("x"))
			require.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)
			require.Equal(t, tt.wantField, decode[errorBody](t, resp).Error.Field)
		})
	}

	detail := decode[model.PostDetail](t, b.get("/post/1"))
	require.Empty(t, detail.Replies)
	require.Nil(t, detail.MinutesToFirstReply)
}

func TestReplyToMissingPost(t *testing.T) {
	b := newTestBoard(t)

	resp := b.postForm("/post/42/reply", url.Values{
		"video_url":  {"https://youtu.be/abc"},
		"transcript": {"text"},
	}, "")
	require.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestRateToggle(t *testing.T) {
	b := newTestBoard(t)
	b.seedPost("Unit circle", "MATH 2413", "trig")
	b.postForm("/post/1/reply", url.Values{"video_url": {"https://youtu.be/abc"}, "transcript": {"t"}}, "")

	resp := b.postForm("/reply/1/rate", url.Values{"dim": {"clear"}}, "http://localhost/post/1")
	require.Equal(t, fiber.StatusSeeOther, resp.StatusCode)
	require.Equal(t, "/post/1", resp.Header.Get(fiber.HeaderLocation))
	require.Equal(t, "added", resp.Header.Get(handler.ToggleResultHeader))

	detail := decode[model.PostDetail](t, b.get("/post/1"))
	require.Equal(t, []model.Dimension{model.DimensionClear}, detail.Replies[0].MyVotes)
	require.Equal(t, 1, detail.Replies[0].QScore)
	require.Equal(t, 1, detail.Replies[0].Upvotes)

	resp = b.postForm("/reply/1/rate", url.Values{"dim": {"clear"}}, "")
	require.Equal(t, "/", resp.Header.Get(fiber.HeaderLocation))
	require.Equal(t, "removed", resp.Header.Get(handler.ToggleResultHeader))

	detail = decode[model.PostDetail](t, b.get("/post/1"))
	require.Empty(t, detail.Replies[0].MyVotes)
	require.Zero(t, detail.Replies[0].Upvotes)
}

func TestRateInvalidDimensionIsIgnored(t *testing.T) {
	b := newTestBoard(t)
	b.seedPost("Unit circle", "MATH 2413", "trig")
	b.postForm("/post/1/reply", url.Values{"video_url": {"https://youtu.be/abc"}, "transcript": {"t"}}, "")

	for _, dim := range []string{"upvotes", "", "CLEAR", "clear; DROP TABLE"} {
		resp := b.postForm("/reply/1/rate", url.Values{"dim": {dim}}, "/post/1")
		require.Equal(t, fiber.StatusSeeOther, resp.StatusCode, dim)
		require.Equal(t, "/post/1", resp.Header.Get(fiber.HeaderLocation))
		require.Empty(t, resp.Header.Get(handler.ToggleResultHeader))
	}

	reply, err := b.store.GetReply(t.Context(), 1)
	require.NoError(t, err)
	require.Zero(t, reply.Upvotes)
}

func TestToggleMissingReply(t *testing.T) {
	b := newTestBoard(t)

	resp := b.postForm("/reply/7/rate", url.Values{"dim": {"clear"}}, "")
	require.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	resp = b.postForm("/reply/7/report", nil, "")
	require.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestReportToggle(t *testing.T) {
	b := newTestBoard(t)
	b.seedPost("Unit circle", "MATH 2413", "trig")
	b.postForm("/post/1/reply", url.Values{"video_url": {"https://youtu.be/abc"}, "transcript": {"t"}}, "")

	resp := b.postForm("/reply/1/report", nil, "/post/1")
	require.Equal(t, fiber.StatusSeeOther, resp.StatusCode)
	require.Equal(t, "added", resp.Header.Get(handler.ToggleResultHeader))

	detail := decode[model.PostDetail](t, b.get("/post/1"))
	require.True(t, detail.Replies[0].Reported)
	require.Equal(t, 1, detail.Replies[0].Flags)

	// A different visitor sees the count but not the flag.
	other := *b
	other.session = uuid.NewString()
	detail = decode[model.PostDetail](t, other.get("/post/1"))
	require.False(t, detail.Replies[0].Reported)
	require.Equal(t, 1, detail.Replies[0].Flags)
}

func TestFeedDelta(t *testing.T) {
	b := newTestBoard(t)

	resp := b.get("/api/feed/delta?since=yesterday")
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	b.seedPost("First", "CS 1", "loops")
	first := decode[model.FeedDeltaResponse](t, b.get("/api/feed/delta"))
	require.Len(t, first.Posts, 1)
	require.NotEmpty(t, first.SyncTimestamp)

	b.seedPost("Second", "CS 1", "loops")

	// Polls overlap, so the first post comes back too; clients dedupe by id.
	next := decode[model.FeedDeltaResponse](t, b.get("/api/feed/delta?since="+url.QueryEscape(first.SyncTimestamp)))
	require.Len(t, next.Posts, 2)
	require.Equal(t, "First", next.Posts[0].Title)
	require.Equal(t, "Second", next.Posts[1].Title)
}

func TestUploadsRejectUnknownNames(t *testing.T) {
	b := newTestBoard(t)

	for _, target := range []string{"/uploads/missing.mp4", "/uploads/20250101000000_missing.mp4", "/uploads/..%2Fetc%2Fpasswd"} {
		resp := b.get(target)
		require.Equal(t, fiber.StatusNotFound, resp.StatusCode, target)
	}
}

func TestStatsAndHealth(t *testing.T) {
	b := newTestBoard(t)
	b.seedPost("Unit circle", "MATH 2413", "trig")

	stats := decode[model.StatsResponse](t, b.get("/api/stats"))
	require.Equal(t, 1, stats.TotalPosts)
	require.Equal(t, 1, stats.TotalUsers)
	require.Equal(t, 0, stats.VotesByDimension["clear"])

	resp := b.get("/health/live")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	ready := decode[map[string]any](t, b.get("/health/ready"))
	require.Equal(t, "healthy", ready["status"])
	checks := ready["checks"].(map[string]any)
	require.Equal(t, "disabled", checks["database"].(map[string]any)["status"])
}
