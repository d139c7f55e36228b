// Package imageapi provides a client for the Lolicon image API.
package imageapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// ErrEmptyResult is returned when the API responds without any image.
var ErrEmptyResult = errors.New("no image returned")

// StatusError is returned when the API responds with a non-2xx status.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("image api returned status %d", e.Code)
}

// Image is the descriptive payload of a fetched picture.
type Image struct {
	URL    string
	Title  string
	Author string
}

// Client calls the image API over HTTP.
type Client struct {
	baseURL   string
	excludeAI bool
	http      *http.Client
}

// NewClient creates a Client. The timeout bounds the whole request.
func NewClient(baseURL string, timeout time.Duration, excludeAI bool) *Client {
	return &Client{
		baseURL:   baseURL,
		excludeAI: excludeAI,
		http:      &http.Client{Timeout: timeout},
	}
}

type apiResponse struct {
	Data []struct {
		Title  string `json:"title"`
		Author string `json:"author"`
		URLs   struct {
			Original string `json:"original"`
		} `json:"urls"`
	} `json:"data"`
}

// Fetch requests one random image. r18 selects the restricted category.
func (c *Client) Fetch(ctx context.Context, r18 bool) (*Image, error) {
	r18Param, excludeParam := 0, 0
	if r18 {
		r18Param = 1
	}
	if c.excludeAI {
		excludeParam = 1
	}
	url := fmt.Sprintf("%s?r18=%d&excludeAI=%d", c.baseURL, r18Param, excludeParam)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{Code: resp.StatusCode}
	}

	var body apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	if len(body.Data) == 0 || body.Data[0].URLs.Original == "" {
		return nil, ErrEmptyResult
	}

	item := body.Data[0]
	img := &Image{
		URL:    item.URLs.Original,
		Title:  item.Title,
		Author: item.Author,
	}
	if img.Title == "" {
		img.Title = "未知"
	}
	if img.Author == "" {
		img.Author = "未知"
	}
	return img, nil
}
