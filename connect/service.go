// Package connect provides Connect REST API operations: Chatter feeds,
// comments and files, plus the standalone Connect endpoints (tabs,
// theme, app menu, recent items, relevant items and platform-event
// schema), generalizing the teacher's Chatter-only package of the same
// name onto internal/session.
package connect

import (
	"context"
	"net/url"

	"github.com/sfcore/salesforce/internal/session"
)

// Feed represents a Chatter feed.
type Feed struct {
	Elements       []FeedElement `json:"elements"`
	NextPageUrl    string        `json:"nextPageUrl,omitempty"`
	CurrentPageUrl string        `json:"currentPageUrl"`
}

// FeedElement represents a feed element (post).
type FeedElement struct {
	ID              string       `json:"id"`
	Type            string       `json:"type"`
	URL             string       `json:"url"`
	CreatedDate     string       `json:"createdDate"`
	ModifiedDate    string       `json:"modifiedDate,omitempty"`
	Body            MessageBody  `json:"body"`
	Actor           Actor        `json:"actor"`
	Capabilities    Capabilities `json:"capabilities,omitempty"`
	Header          TextBody     `json:"header,omitempty"`
}

// MessageBody contains feed element body.
type MessageBody struct {
	MessageSegments []MessageSegment `json:"messageSegments"`
	Text            string           `json:"text"`
}

// MessageSegment represents a segment of a message.
type MessageSegment struct {
	Type         string `json:"type"`
	Text         string `json:"text,omitempty"`
	Name         string `json:"name,omitempty"`
	URL          string `json:"url,omitempty"`
	RecordId     string `json:"recordId,omitempty"`
	MentionedUser *User `json:"user,omitempty"`
}

// TextBody contains text content.
type TextBody struct {
	Text string `json:"text"`
}

// Actor represents a user or entity.
type Actor struct {
	ID          string `json:"id"`
	Type        string `json:"type"`
	Name        string `json:"name"`
	DisplayName string `json:"displayName,omitempty"`
	Photo       Photo  `json:"photo,omitempty"`
	URL         string `json:"url,omitempty"`
}

// Photo contains photo URLs.
type Photo struct {
	SmallPhotoUrl  string `json:"smallPhotoUrl"`
	MediumPhotoUrl string `json:"mediumPhotoUrl,omitempty"`
	LargePhotoUrl  string `json:"largePhotoUrl,omitempty"`
	FullEmailPhotoUrl string `json:"fullEmailPhotoUrl,omitempty"`
}

// Capabilities contains feed element capabilities.
type Capabilities struct {
	Comments    CommentsCapability `json:"comments,omitempty"`
	Files       FilesCapability    `json:"files,omitempty"`
	Like        LikeCapability     `json:"like,omitempty"`
	Poll        PollCapability     `json:"poll,omitempty"`
}

// CommentsCapability contains comment capability info.
type CommentsCapability struct {
	Page CommentPage `json:"page"`
}

// CommentPage contains comments.
type CommentPage struct {
	Items          []Comment `json:"items"`
	TotalCount     int       `json:"total"`
	NextPageUrl    string    `json:"nextPageUrl,omitempty"`
}

// Comment represents a comment.
type Comment struct {
	ID          string      `json:"id"`
	Body        MessageBody `json:"body"`
	CreatedDate string      `json:"createdDate"`
	User        User        `json:"user"`
	URL         string      `json:"url"`
}

// FilesCapability contains file capability info.
type FilesCapability struct {
	Items []ContentDocument `json:"items"`
}

// LikeCapability contains like capability info.
type LikeCapability struct {
	IsLikedByCurrentUser bool `json:"isLikedByCurrentUser"`
	LikesMessage         TextBody `json:"likesMessage,omitempty"`
}

// PollCapability contains poll capability info.
type PollCapability struct {
	Choices     []PollChoice `json:"choices"`
	TotalVotes  int          `json:"totalVoteCount"`
}

// PollChoice represents a poll choice.
type PollChoice struct {
	ID         string `json:"id"`
	Position   int    `json:"position"`
	Text       string `json:"text"`
	VoteCount  int    `json:"voteCount"`
}

// User represents a Chatter user.
type User struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	DisplayName     string `json:"displayName,omitempty"`
	Title           string `json:"title,omitempty"`
	Email           string `json:"email,omitempty"`
	CompanyName     string `json:"companyName,omitempty"`
	Username        string `json:"username,omitempty"`
	Photo           Photo  `json:"photo,omitempty"`
	URL             string `json:"url,omitempty"`
	Type            string `json:"type,omitempty"`
	IsActive        bool   `json:"isActive"`
	UserType        string `json:"userType,omitempty"`
}

// UserPage contains a page of users.
type UserPage struct {
	Users       []User `json:"users"`
	NextPageUrl string `json:"nextPageUrl,omitempty"`
	TotalCount  int    `json:"total"`
}

// ContentDocument represents a file.
type ContentDocument struct {
	ID             string `json:"id"`
	Title          string `json:"title"`
	FileType       string `json:"fileType"`
	ContentSize    int    `json:"contentSize"`
	DownloadUrl    string `json:"downloadUrl"`
	RenditionUrl   string `json:"renditionUrl,omitempty"`
	VersionId      string `json:"versionId"`
}

// FilePage contains a page of files.
type FilePage struct {
	Files       []ContentDocument `json:"files"`
	NextPageUrl string            `json:"nextPageUrl,omitempty"`
	TotalCount  int               `json:"total"`
}

// Group represents a Chatter group.
type Group struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	Description     string `json:"description,omitempty"`
	MemberCount     int    `json:"memberCount"`
	Owner           User   `json:"owner"`
	Visibility      string `json:"visibility"`
	CanHaveChatterGuests bool `json:"canHaveChatterGuests"`
	URL             string `json:"url"`
	Photo           Photo  `json:"photo,omitempty"`
}

// GroupPage contains a page of groups.
type GroupPage struct {
	Groups      []Group `json:"groups"`
	NextPageUrl string  `json:"nextPageUrl,omitempty"`
	TotalCount  int     `json:"total"`
}

// FeedInput represents input for creating a feed element.
type FeedInput struct {
	Body            MessageBodyInput `json:"body"`
	SubjectId       string           `json:"subjectId"`
	FeedElementType string           `json:"feedElementType,omitempty"`
	Visibility      string           `json:"visibility,omitempty"`
}

// MessageBodyInput represents input for message body.
type MessageBodyInput struct {
	MessageSegments []MessageSegmentInput `json:"messageSegments"`
}

// MessageSegmentInput represents input for a message segment.
type MessageSegmentInput struct {
	Type string `json:"type"`
	Text string `json:"text,omitempty"`
	Id   string `json:"id,omitempty"`
}

// Service provides Connect REST API operations bound to one session.
type Service struct {
	sess *session.Session
}

// NewService builds a Service.
func NewService(sess *session.Session) *Service { return &Service{sess: sess} }

// GetNewsFeed retrieves the current user's news feed.
func (s *Service) GetNewsFeed(ctx context.Context) (*Feed, error) {
	return s.getFeed(ctx, "chatter/feeds/news/me/feed-elements")
}

// GetUserProfileFeed retrieves a user's profile feed.
func (s *Service) GetUserProfileFeed(ctx context.Context, userId string) (*Feed, error) {
	return s.getFeed(ctx, "chatter/feeds/user-profile/"+userId+"/feed-elements")
}

// GetRecordFeed retrieves a record's feed.
func (s *Service) GetRecordFeed(ctx context.Context, recordId string) (*Feed, error) {
	return s.getFeed(ctx, "chatter/feeds/record/"+recordId+"/feed-elements")
}

// GetGroupFeed retrieves a group's feed.
func (s *Service) GetGroupFeed(ctx context.Context, groupId string) (*Feed, error) {
	return s.getFeed(ctx, "chatter/feeds/groups/"+groupId+"/feed-elements")
}

// GetFeedElement retrieves a single feed element.
func (s *Service) GetFeedElement(ctx context.Context, feedElementId string) (*FeedElement, error) {
	var elem FeedElement
	if _, err := s.sess.RestGet(ctx, "chatter/feed-elements/"+feedElementId, &elem); err != nil {
		return nil, err
	}
	return &elem, nil
}

// PostFeedElement creates a new feed element (post).
func (s *Service) PostFeedElement(ctx context.Context, input FeedInput) (*FeedElement, error) {
	if input.FeedElementType == "" {
		input.FeedElementType = "FeedItem"
	}
	var elem FeedElement
	if _, err := s.sess.RestPost(ctx, "chatter/feed-elements", input, &elem); err != nil {
		return nil, err
	}
	return &elem, nil
}

// PostComment adds a comment to a feed element.
func (s *Service) PostComment(ctx context.Context, feedElementId string, body MessageBodyInput) (*Comment, error) {
	var comment Comment
	path := "chatter/feed-elements/" + feedElementId + "/capabilities/comments/items"
	if _, err := s.sess.RestPost(ctx, path, map[string]interface{}{"body": body}, &comment); err != nil {
		return nil, err
	}
	return &comment, nil
}

// LikeFeedElement likes a feed element.
func (s *Service) LikeFeedElement(ctx context.Context, feedElementId string) error {
	path := "chatter/feed-elements/" + feedElementId + "/capabilities/chatter-likes/items"
	_, err := s.sess.RestPost(ctx, path, nil, nil)
	return err
}

// UnlikeFeedElement unlikes a feed element.
func (s *Service) UnlikeFeedElement(ctx context.Context, feedElementId, likeId string) error {
	_, err := s.sess.RestDelete(ctx, "chatter/likes/"+likeId)
	return err
}

// DeleteFeedElement deletes a feed element.
func (s *Service) DeleteFeedElement(ctx context.Context, feedElementId string) error {
	_, err := s.sess.RestDelete(ctx, "chatter/feed-elements/"+feedElementId)
	return err
}

// GetCurrentUser retrieves the current user's info.
func (s *Service) GetCurrentUser(ctx context.Context) (*User, error) {
	var user User
	if _, err := s.sess.RestGet(ctx, "chatter/users/me", &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// GetUser retrieves a user's info.
func (s *Service) GetUser(ctx context.Context, userId string) (*User, error) {
	var user User
	if _, err := s.sess.RestGet(ctx, "chatter/users/"+userId, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// SearchUsers searches for users.
func (s *Service) SearchUsers(ctx context.Context, query string) (*UserPage, error) {
	var page UserPage
	if _, err := s.sess.RestGet(ctx, "chatter/users?q="+url.QueryEscape(query), &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// GetMyFiles retrieves current user's files.
func (s *Service) GetMyFiles(ctx context.Context) (*FilePage, error) {
	var page FilePage
	if _, err := s.sess.RestGet(ctx, "chatter/users/me/files", &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// GetFile retrieves file information.
func (s *Service) GetFile(ctx context.Context, fileId string) (*ContentDocument, error) {
	var file ContentDocument
	if _, err := s.sess.RestGet(ctx, "chatter/files/"+fileId, &file); err != nil {
		return nil, err
	}
	return &file, nil
}

// GetGroups retrieves Chatter groups.
func (s *Service) GetGroups(ctx context.Context) (*GroupPage, error) {
	var page GroupPage
	if _, err := s.sess.RestGet(ctx, "chatter/groups", &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// GetGroup retrieves a Chatter group.
func (s *Service) GetGroup(ctx context.Context, groupId string) (*Group, error) {
	var group Group
	if _, err := s.sess.RestGet(ctx, "chatter/groups/"+groupId, &group); err != nil {
		return nil, err
	}
	return &group, nil
}

func (s *Service) getFeed(ctx context.Context, path string) (*Feed, error) {
	var feed Feed
	if _, err := s.sess.RestGet(ctx, path, &feed); err != nil {
		return nil, err
	}
	return &feed, nil
}

// Tabs lists the tabs visible to the running user in the current app.
type Tabs struct {
	AppTabs   []Tab `json:"appTabs"`
	TabSetId  string `json:"tabSetId,omitempty"`
}

// Tab describes a single navigable tab.
type Tab struct {
	Label    string `json:"label"`
	Name     string `json:"name"`
	URL      string `json:"url"`
	IconURL  string `json:"iconUrl,omitempty"`
	Custom   bool   `json:"custom"`
}

// GetTabs retrieves the running user's visible tabs.
func (s *Service) GetTabs(ctx context.Context) (*Tabs, error) {
	var tabs Tabs
	if _, err := s.sess.RestGet(ctx, "tabs", &tabs); err != nil {
		return nil, err
	}
	return &tabs, nil
}

// Theme contains the active Lightning theme's branding assets.
type Theme struct {
	ThemeName string            `json:"themeName"`
	Colors    map[string]string `json:"colors,omitempty"`
}

// GetTheme retrieves the active theme.
func (s *Service) GetTheme(ctx context.Context) (*Theme, error) {
	var theme Theme
	if _, err := s.sess.RestGet(ctx, "theme", &theme); err != nil {
		return nil, err
	}
	return &theme, nil
}

// AppMenuItem describes one entry in an app launcher menu.
type AppMenuItem struct {
	Label      string `json:"label"`
	ApplicationId string `json:"applicationId"`
	Icon       string `json:"icon,omitempty"`
}

// GetAppMenu retrieves app launcher items for menuType ("Salesforce1" or
// "AppSwitcher").
func (s *Service) GetAppMenu(ctx context.Context, menuType string) ([]AppMenuItem, error) {
	var result struct {
		AppMenuItems []AppMenuItem `json:"appMenuItems"`
	}
	if _, err := s.sess.RestGet(ctx, "appMenu/"+menuType, &result); err != nil {
		return nil, err
	}
	return result.AppMenuItems, nil
}

// RecentItem is one entry in the running user's recently-viewed list.
type RecentItem struct {
	ID     string `json:"Id"`
	Name   string `json:"Name,omitempty"`
	Attributes map[string]interface{} `json:"attributes,omitempty"`
}

// GetRecentItems retrieves the running user's recently-viewed records.
func (s *Service) GetRecentItems(ctx context.Context) ([]RecentItem, error) {
	var items []RecentItem
	if _, err := s.sess.RestGet(ctx, "recent", &items); err != nil {
		return nil, err
	}
	return items, nil
}

// RelevantItems represents the ranked "relevant to you" list for a parent record.
type RelevantItems struct {
	Results []RelevantItem `json:"results"`
}

// RelevantItem is a single relevance-ranked record reference.
type RelevantItem struct {
	RecordId string `json:"recordId"`
	Object   string `json:"object"`
}

// GetRelevantItems retrieves relevant-items recommendations for a parent record.
func (s *Service) GetRelevantItems(ctx context.Context, parentId string) (*RelevantItems, error) {
	var result RelevantItems
	if _, err := s.sess.RestGet(ctx, "relevantItems/forRecord/"+parentId, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// PlatformEventSchema describes a platform event's field schema, fetched
// via the Connect schema endpoint rather than SOQL describe.
type PlatformEventSchema struct {
	Name   string                   `json:"name"`
	Fields []map[string]interface{} `json:"fields"`
}

// GetPlatformEventSchema retrieves the field schema for a platform event.
func (s *Service) GetPlatformEventSchema(ctx context.Context, eventName string) (*PlatformEventSchema, error) {
	var schema PlatformEventSchema
	if _, err := s.sess.RestGet(ctx, "sobjects/"+eventName+"/eventSchema", &schema); err != nil {
		return nil, err
	}
	return &schema, nil
}
