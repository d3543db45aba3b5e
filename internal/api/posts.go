package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/pratihub/pratihub_bot/internal/model"
)

func (c *Client) ListPosts(ctx context.Context) ([]model.Post, error) {
	var posts []model.Post
	if err := c.do(ctx, http.MethodGet, "/posts", nil, nil, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

func (c *Client) CreatePost(ctx context.Context, post model.NewPost) (*model.Post, error) {
	var created model.Post
	if err := c.do(ctx, http.MethodPost, "/posts", nil, post, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (c *Client) ListComments(ctx context.Context, postID model.ID) ([]model.Comment, error) {
	query := url.Values{}
	query.Set("postId", postID.String())

	var comments []model.Comment
	if err := c.do(ctx, http.MethodGet, "/comments", query, nil, &comments); err != nil {
		return nil, err
	}
	return comments, nil
}

func (c *Client) CreateComment(ctx context.Context, comment model.NewComment) (*model.Comment, error) {
	var created model.Comment
	if err := c.do(ctx, http.MethodPost, "/comments", nil, comment, &created); err != nil {
		return nil, err
	}
	return &created, nil
}
