package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/jwebster45206/gossip-village/internal/handlers"
	"github.com/jwebster45206/gossip-village/internal/services/events"
	"github.com/jwebster45206/gossip-village/pkg/state"
)

// apiClient talks to the game API on behalf of the console.
type apiClient struct {
	baseURL string
	http    *http.Client
}

func (c *apiClient) healthy() bool {
	resp, err := c.http.Get(c.baseURL + "/health")
	if err != nil {
		return false
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	return resp.StatusCode == http.StatusOK
}

// do sends body as JSON and decodes the response into out when the status
// matches want.
func (c *apiClient) do(method, path string, body any, want int, out any) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != want {
		var errorResp handlers.ErrorResponse
		if err := json.Unmarshal(raw, &errorResp); err != nil || errorResp.Error == "" {
			return fmt.Errorf("API returned status %d: %s", resp.StatusCode, string(raw))
		}
		return fmt.Errorf("%s", errorResp.Error)
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}

func (c *apiClient) createGame(mode state.GameMode, locale string) (*state.GameState, error) {
	var gs state.GameState
	err := c.do(http.MethodPost, "/v1/games", handlers.CreateGameRequest{Mode: string(mode), Locale: locale}, http.StatusCreated, &gs)
	return &gs, err
}

func (c *apiClient) getGame(id uuid.UUID) (*state.GameState, error) {
	var gs state.GameState
	err := c.do(http.MethodGet, "/v1/games/"+id.String(), nil, http.StatusOK, &gs)
	return &gs, err
}

func (c *apiClient) act(id uuid.UUID, req handlers.ActionRequest) (*handlers.ActionResponse, error) {
	var resp handlers.ActionResponse
	err := c.do(http.MethodPost, "/v1/games/"+id.String()+"/actions", req, http.StatusOK, &resp)
	return &resp, err
}

func (c *apiClient) undo(id uuid.UUID) (*handlers.UndoResponse, error) {
	var resp handlers.UndoResponse
	err := c.do(http.MethodPost, "/v1/games/"+id.String()+"/undo", nil, http.StatusOK, &resp)
	return &resp, err
}

func (c *apiClient) endPhase(id uuid.UUID) (*handlers.EndPhaseResponse, error) {
	var resp handlers.EndPhaseResponse
	err := c.do(http.MethodPost, "/v1/games/"+id.String()+"/end-phase", nil, http.StatusAccepted, &resp)
	return &resp, err
}

func (c *apiClient) closeNewspaper(id uuid.UUID) (*state.GameState, error) {
	var gs state.GameState
	err := c.do(http.MethodPost, "/v1/games/"+id.String()+"/newspaper/close", nil, http.StatusOK, &gs)
	return &gs, err
}

// eventsURL turns the API base URL into the websocket address for a game.
func (c *apiClient) eventsURL(id uuid.UUID) (string, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return "", err
	}
	switch u.Scheme {
	case "https":
		u.Scheme = "wss"
	default:
		u.Scheme = "ws"
	}
	u.Path = strings.TrimSuffix(u.Path, "/") + "/v1/events/games/" + id.String()
	return u.String(), nil
}

// listen streams game events into out until ctx is done or the socket
// closes. out is closed on return.
func (c *apiClient) listen(ctx context.Context, id uuid.UUID, out chan<- events.Event) error {
	defer close(out)

	addr, err := c.eventsURL(id)
	if err != nil {
		return fmt.Errorf("failed to build events URL: %w", err)
	}
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, addr, nil)
	if err != nil {
		return fmt.Errorf("failed to connect to events: %w", err)
	}
	defer func() {
		_ = conn.Close()
	}()

	go func() {
		<-ctx.Done()
		_ = conn.Close()
	}()

	for {
		var ev events.Event
		if err := conn.ReadJSON(&ev); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("error reading events: %w", err)
		}
		select {
		case out <- ev:
		case <-ctx.Done():
			return nil
		}
	}
}
