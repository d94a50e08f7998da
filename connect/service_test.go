package connect_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sfcore/salesforce/connect"
	"github.com/sfcore/salesforce/credentials"
	"github.com/sfcore/salesforce/internal/session"
	"github.com/sfcore/salesforce/internal/transport"
)

func newTestService(t *testing.T, handler http.HandlerFunc) *connect.Service {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	tr := transport.New(transport.Config{HTTPClient: srv.Client(), Credentials: credentials.NewStaticCredentials("tok", srv.URL)})
	return connect.NewService(session.New(tr, srv.URL, "59.0"))
}

func TestService_GetNewsFeed(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/services/data/v59.0/chatter/feeds/news/me/feed-elements", r.URL.Path)
		w.Write([]byte(`{"elements":[{"id":"0D5xx","type":"TextPost"}],"currentPageUrl":"/cur"}`))
	})
	feed, err := svc.GetNewsFeed(context.Background())
	require.NoError(t, err)
	require.Len(t, feed.Elements, 1)
	assert.Equal(t, "TextPost", feed.Elements[0].Type)
}

func TestService_GetRecordFeed(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/services/data/v59.0/chatter/feeds/record/001xx/feed-elements", r.URL.Path)
		w.Write([]byte(`{"elements":[],"currentPageUrl":"/cur"}`))
	})
	feed, err := svc.GetRecordFeed(context.Background(), "001xx")
	require.NoError(t, err)
	assert.Empty(t, feed.Elements)
}

func TestService_PostFeedElement_DefaultsFeedElementType(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		w.Write([]byte(`{"id":"0D5xx","type":"TextPost"}`))
	})
	elem, err := svc.PostFeedElement(context.Background(), connect.FeedInput{SubjectId: "001xx"})
	require.NoError(t, err)
	assert.Equal(t, "0D5xx", elem.ID)
}

func TestService_PostComment(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.URL.Path, "/capabilities/comments/items")
		w.Write([]byte(`{"id":"cmtxx"}`))
	})
	comment, err := svc.PostComment(context.Background(), "0D5xx", connect.MessageBodyInput{})
	require.NoError(t, err)
	assert.Equal(t, "cmtxx", comment.ID)
}

func TestService_LikeFeedElement(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.URL.Path, "/capabilities/chatter-likes/items")
		w.WriteHeader(http.StatusNoContent)
	})
	require.NoError(t, svc.LikeFeedElement(context.Background(), "0D5xx"))
}

func TestService_DeleteFeedElement(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		w.WriteHeader(http.StatusNoContent)
	})
	require.NoError(t, svc.DeleteFeedElement(context.Background(), "0D5xx"))
}

func TestService_GetCurrentUser(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/services/data/v59.0/chatter/users/me", r.URL.Path)
		w.Write([]byte(`{"id":"005xx","name":"Jane"}`))
	})
	user, err := svc.GetCurrentUser(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Jane", user.Name)
}

func TestService_SearchUsers(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.URL.RawQuery, "q=")
		w.Write([]byte(`{"users":[{"id":"005xx"}],"total":1}`))
	})
	page, err := svc.SearchUsers(context.Background(), "Jane")
	require.NoError(t, err)
	assert.Equal(t, 1, page.TotalCount)
}

func TestService_GetGroups(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"groups":[{"id":"0F9xx","name":"Engineering"}],"total":1}`))
	})
	page, err := svc.GetGroups(context.Background())
	require.NoError(t, err)
	require.Len(t, page.Groups, 1)
	assert.Equal(t, "Engineering", page.Groups[0].Name)
}

func TestService_GetTabs(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/services/data/v59.0/tabs", r.URL.Path)
		w.Write([]byte(`{"appTabs":[{"label":"Home","name":"home"}]}`))
	})
	tabs, err := svc.GetTabs(context.Background())
	require.NoError(t, err)
	require.Len(t, tabs.AppTabs, 1)
}

func TestService_GetTheme(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"themeName":"Lightning"}`))
	})
	theme, err := svc.GetTheme(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Lightning", theme.ThemeName)
}

func TestService_GetAppMenu(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.URL.Path, "appMenu/AppSwitcher")
		w.Write([]byte(`{"appMenuItems":[{"label":"Sales","applicationId":"06mxx"}]}`))
	})
	items, err := svc.GetAppMenu(context.Background(), "AppSwitcher")
	require.NoError(t, err)
	require.Len(t, items, 1)
}

func TestService_GetRecentItems(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"Id":"001xx","Name":"Acme"}]`))
	})
	items, err := svc.GetRecentItems(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Acme", items[0].Name)
}

func TestService_GetRelevantItems(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.URL.Path, "relevantItems/forRecord/001xx")
		w.Write([]byte(`{"results":[{"recordId":"003xx","object":"Contact"}]}`))
	})
	result, err := svc.GetRelevantItems(context.Background(), "001xx")
	require.NoError(t, err)
	require.Len(t, result.Results, 1)
}

func TestService_GetPlatformEventSchema(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.URL.Path, "sobjects/Order_Event__e/eventSchema")
		w.Write([]byte(`{"name":"Order_Event__e","fields":[{"name":"OrderId__c"}]}`))
	})
	schema, err := svc.GetPlatformEventSchema(context.Background(), "Order_Event__e")
	require.NoError(t, err)
	assert.Equal(t, "Order_Event__e", schema.Name)
}
