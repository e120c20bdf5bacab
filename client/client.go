// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/MaplrCanada/ss-petitions/middleware"
	"github.com/MaplrCanada/ss-petitions/models"
	"github.com/MaplrCanada/ss-petitions/petition"
)

const defaultTimeout = 10 * time.Second

// Identity is sent with every request.
type Identity struct {
	CitizenID string
	Name      string
	AdminKey  string
}

type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithTimeout sets the per-request timeout of the default HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.Timeout = d }
}

// Client talks to the petitions API. It keeps the last snapshot and checks
// every action against it before anything is sent.
type Client struct {
	baseURL  string
	identity Identity
	http     *http.Client
	now      func() time.Time

	mu     sync.Mutex
	cache  models.Snapshot
	loaded bool
}

func New(baseURL string, identity Identity, opts ...Option) *Client {
	c := &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		identity: identity,
		http:     &http.Client{Timeout: defaultTimeout},
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Snapshot fetches the current board and replaces the cache.
func (c *Client) Snapshot(ctx context.Context) (models.Snapshot, error) {
	var snap models.Snapshot
	if err := c.do(ctx, "snapshot", http.MethodGet, "/snapshot", nil, &snap); err != nil {
		return models.Snapshot{}, err
	}

	c.mu.Lock()
	c.cache = snap
	c.loaded = true
	c.mu.Unlock()

	return cloneSnapshot(snap), nil
}

// Cached returns the last snapshot and whether one was loaded.
func (c *Client) Cached() (models.Snapshot, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return cloneSnapshot(c.cache), c.loaded
}

// List derives a view from the cached snapshot without a round trip.
func (c *Client) List(view petition.View, params petition.Params) ([]petition.Petition, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.loaded {
		return nil, ErrNoSnapshot
	}
	return petition.ListFor(view, c.cache.Viewer, c.cache.Petitions, params, c.cache.Config), nil
}

// Submit validates sub locally, then creates the petition.
func (c *Client) Submit(ctx context.Context, sub petition.Submission) (models.PetitionView, error) {
	snap, err := c.ensureSnapshot(ctx)
	if err != nil {
		return models.PetitionView{}, err
	}
	if !snap.Viewer.Identified() {
		return models.PetitionView{}, petition.ErrUnidentifiedViewer
	}

	clean, err := petition.ValidateSubmission(sub, snap.Config)
	if err != nil {
		return models.PetitionView{}, err
	}
	if err := petition.CheckDuplicate(snap.Petitions, snap.Viewer.ID, clean.Title); err != nil {
		return models.PetitionView{}, err
	}

	var resp models.ActionResponse
	if err := c.do(ctx, "submit", http.MethodPost, "/petitions", clean, &resp); err != nil {
		return models.PetitionView{}, err
	}
	return c.store(resp)
}

// Sign signs petition id as the client's identity.
func (c *Client) Sign(ctx context.Context, id string) (models.PetitionView, error) {
	snap, err := c.ensureSnapshot(ctx)
	if err != nil {
		return models.PetitionView{}, err
	}
	p, err := find(snap, id)
	if err != nil {
		return models.PetitionView{}, err
	}
	if _, err := petition.ApplySignature(p, snap.Viewer, snap.Config, c.now()); err != nil {
		return models.PetitionView{}, err
	}

	var resp models.ActionResponse
	if err := c.do(ctx, "sign", http.MethodPost, "/petitions/"+id+"/sign", nil, &resp); err != nil {
		return models.PetitionView{}, err
	}
	return c.store(resp)
}

// Delete removes petition id. Only its author or an admin may.
func (c *Client) Delete(ctx context.Context, id string) error {
	snap, err := c.ensureSnapshot(ctx)
	if err != nil {
		return err
	}
	p, err := find(snap, id)
	if err != nil {
		return err
	}
	if !snap.Viewer.Identified() {
		return petition.ErrUnidentifiedViewer
	}
	if !petition.CanDelete(p, snap.Viewer) {
		return petition.ErrUnauthorized
	}

	if err := c.do(ctx, "delete", http.MethodDelete, "/petitions/"+id, nil, nil); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	kept := c.cache.Petitions[:0:0]
	for _, cp := range c.cache.Petitions {
		if cp.ID != id {
			kept = append(kept, cp)
		}
	}
	c.cache.Petitions = kept
	return nil
}

// SetStatus moves petition id to status. Admin only.
func (c *Client) SetStatus(ctx context.Context, id string, status petition.Status, comment string) (models.PetitionView, error) {
	snap, err := c.ensureSnapshot(ctx)
	if err != nil {
		return models.PetitionView{}, err
	}
	p, err := find(snap, id)
	if err != nil {
		return models.PetitionView{}, err
	}
	if !snap.Viewer.Identified() {
		return models.PetitionView{}, petition.ErrUnidentifiedViewer
	}
	if _, err := petition.ApplyStatusChange(p, status, comment, snap.Viewer, c.now()); err != nil {
		return models.PetitionView{}, err
	}

	var resp models.ActionResponse
	req := models.SetStatusRequest{Status: status, Comment: comment}
	if err := c.do(ctx, "set status", http.MethodPost, "/petitions/"+id+"/status", req, &resp); err != nil {
		return models.PetitionView{}, err
	}
	return c.store(resp)
}

func (c *Client) ensureSnapshot(ctx context.Context) (models.Snapshot, error) {
	if snap, ok := c.Cached(); ok {
		return snap, nil
	}
	return c.Snapshot(ctx)
}

func find(snap models.Snapshot, id string) (petition.Petition, error) {
	for _, p := range snap.Petitions {
		if p.ID == id {
			return p, nil
		}
	}
	return petition.Petition{}, petition.ErrNotFound
}

// store folds the petition of a successful action back into the cache.
func (c *Client) store(resp models.ActionResponse) (models.PetitionView, error) {
	if resp.Petition == nil {
		return models.PetitionView{}, nil
	}
	updated := resp.Petition.Petition.Clone()

	c.mu.Lock()
	defer c.mu.Unlock()
	replaced := false
	for i, p := range c.cache.Petitions {
		if p.ID == updated.ID {
			c.cache.Petitions[i] = updated
			replaced = true
			break
		}
	}
	if !replaced {
		c.cache.Petitions = append(c.cache.Petitions, updated)
	}
	return *resp.Petition, nil
}

func (c *Client) do(ctx context.Context, op, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return &TransportError{Op: op, Err: fmt.Errorf("encode request: %w", err)}
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return &TransportError{Op: op, Err: err}
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.identity.CitizenID != "" {
		req.Header.Set(middleware.HeaderCitizenID, c.identity.CitizenID)
		req.Header.Set(middleware.HeaderCitizenName, c.identity.Name)
	}
	if c.identity.AdminKey != "" {
		req.Header.Set(middleware.HeaderAdminKey, c.identity.AdminKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var e models.ErrorResponse
		_ = json.NewDecoder(resp.Body).Decode(&e)
		return &TransportError{Op: op, StatusCode: resp.StatusCode, Code: e.Code, Message: e.Message}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &TransportError{Op: op, StatusCode: resp.StatusCode, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}

func cloneSnapshot(s models.Snapshot) models.Snapshot {
	out := s
	if s.Petitions != nil {
		out.Petitions = make([]petition.Petition, len(s.Petitions))
		for i, p := range s.Petitions {
			out.Petitions[i] = p.Clone()
		}
	}
	out.Config.Categories = append([]string(nil), s.Config.Categories...)
	return out
}
