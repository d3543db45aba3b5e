package service

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/pratihub/pratihub_bot/internal/api"
	"github.com/pratihub/pratihub_bot/internal/model"
)

// ForumService общий форум: посты и комментарии
type ForumService struct {
	client   *api.Client
	validate *Validator
	logger   *zap.Logger
}

func NewForumService(client *api.Client, validate *Validator, logger *zap.Logger) *ForumService {
	return &ForumService{client: client, validate: validate, logger: logger}
}

// Posts новые первыми
func (s *ForumService) Posts(ctx context.Context, ts api.TokenSource) ([]model.Post, error) {
	posts, err := s.client.WithTokens(ts).ListPosts(ctx)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	sort.SliceStable(posts, func(i, j int) bool {
		return posts[i].CreatedAt > posts[j].CreatedAt
	})
	return posts, nil
}

func (s *ForumService) Publish(ctx context.Context, ts api.TokenSource, author *model.Session, title, content string) (*model.Post, error) {
	post := model.NewPost{
		AuthorID: author.UserID,
		Title:    strings.TrimSpace(title),
		Content:  strings.TrimSpace(content),
	}
	if err := s.validate.Struct(post); err != nil {
		return nil, err
	}

	created, err := s.client.WithTokens(ts).CreatePost(ctx, post)
	if err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}

	s.logger.Info("Post published",
		zap.String("post_id", created.ID.String()),
		zap.String("author_id", author.UserID.String()))
	return created, nil
}

// Comments комментарии поста в хронологическом порядке
func (s *ForumService) Comments(ctx context.Context, ts api.TokenSource, postID model.ID) ([]model.Comment, error) {
	comments, err := s.client.WithTokens(ts).ListComments(ctx, postID)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	sort.SliceStable(comments, func(i, j int) bool {
		return comments[i].CreatedAt < comments[j].CreatedAt
	})
	return comments, nil
}

func (s *ForumService) Comment(ctx context.Context, ts api.TokenSource, author *model.Session, postID model.ID, content string) (*model.Comment, error) {
	comment := model.NewComment{
		PostID:   postID,
		AuthorID: author.UserID,
		Content:  strings.TrimSpace(content),
	}
	if err := s.validate.Struct(comment); err != nil {
		return nil, err
	}

	created, err := s.client.WithTokens(ts).CreateComment(ctx, comment)
	if err != nil {
		return nil, fmt.Errorf("create comment: %w", err)
	}
	return created, nil
}
