package simulate

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
	json "github.com/goccy/go-json"
)

// apiClient wraps a resty client pointed at one djboard instance.
type apiClient struct {
	rc *resty.Client
}

// newAPIClient creates a client with the run's timeout applied to every
// request.
func newAPIClient(baseURL string, timeout time.Duration) *apiClient {
	rc := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetHeader("Content-Type", "application/json")
	// Same codec the server answers with.
	rc.JSONMarshal = json.Marshal
	rc.JSONUnmarshal = json.Unmarshal
	return &apiClient{rc: rc}
}

// health verifies the service answers its liveness route.
func (c *apiClient) health(ctx context.Context) error {
	resp, err := c.rc.R().SetContext(ctx).Get("/healthz")
	if err != nil {
		return fmt.Errorf("failed to connect to service: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return fmt.Errorf("health check answered HTTP %d", resp.StatusCode())
	}
	return nil
}

// createProfile creates a user and returns its id. DJ profiles get the dj
// role; everything else defaults to a plain fan.
func (c *apiClient) createProfile(ctx context.Context, name string, dj bool) (string, error) {
	body := map[string]any{"name": name}
	if dj {
		body["roles"] = []string{"dj"}
	}

	var out createdRef
	resp, err := c.rc.R().SetContext(ctx).SetBody(body).SetResult(&out).Post("/users")
	if err != nil {
		return "", fmt.Errorf("create profile %q: %w", name, err)
	}
	if resp.StatusCode() != http.StatusCreated {
		return "", fmt.Errorf("create profile %q: HTTP %d: %s", name, resp.StatusCode(), resp.String())
	}
	return out.ID, nil
}

// recordTip records a pending tip and returns its id.
func (c *apiClient) recordTip(ctx context.Context, fanID, djName string, amount uint64) (string, error) {
	var out createdRef
	resp, err := c.rc.R().SetContext(ctx).
		SetBody(map[string]any{"fan_id": fanID, "dj_name": djName, "amount": amount}).
		SetResult(&out).
		Post("/tips")
	if err != nil {
		return "", fmt.Errorf("record tip for %q: %w", djName, err)
	}
	if resp.StatusCode() != http.StatusCreated {
		return "", fmt.Errorf("record tip for %q: HTTP %d: %s", djName, resp.StatusCode(), resp.String())
	}
	return out.ID, nil
}

// settleTip completes a pending tip.
func (c *apiClient) settleTip(ctx context.Context, id string) error {
	resp, err := c.rc.R().SetContext(ctx).Post("/tips/" + id + "/settle")
	if err != nil {
		return fmt.Errorf("settle tip %s: %w", id, err)
	}
	if resp.StatusCode() != http.StatusOK {
		return fmt.Errorf("settle tip %s: HTTP %d: %s", id, resp.StatusCode(), resp.String())
	}
	return nil
}

// declineTip declines a pending tip.
func (c *apiClient) declineTip(ctx context.Context, id string) error {
	resp, err := c.rc.R().SetContext(ctx).Post("/tips/" + id + "/decline")
	if err != nil {
		return fmt.Errorf("decline tip %s: %w", id, err)
	}
	if resp.StatusCode() != http.StatusOK {
		return fmt.Errorf("decline tip %s: HTTP %d: %s", id, resp.StatusCode(), resp.String())
	}
	return nil
}

// recordRating records a rating, which the service applies immediately.
func (c *apiClient) recordRating(ctx context.Context, fanID, djName string, stars uint8) error {
	resp, err := c.rc.R().SetContext(ctx).
		SetBody(map[string]any{"fan_id": fanID, "dj_name": djName, "stars": stars}).
		Post("/ratings")
	if err != nil {
		return fmt.Errorf("record rating for %q: %w", djName, err)
	}
	if resp.StatusCode() != http.StatusCreated {
		return fmt.Errorf("record rating for %q: HTTP %d: %s", djName, resp.StatusCode(), resp.String())
	}
	return nil
}

// leaderboard fetches every board entry in rank order.
func (c *apiClient) leaderboard(ctx context.Context) ([]boardEntry, error) {
	var out entryList
	resp, err := c.rc.R().SetContext(ctx).SetResult(&out).Get("/leaderboard")
	if err != nil {
		return nil, fmt.Errorf("fetch leaderboard: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("fetch leaderboard: HTTP %d: %s", resp.StatusCode(), resp.String())
	}
	return out.Items, nil
}

// top fetches the first n entries in rank order.
func (c *apiClient) top(ctx context.Context, n int) ([]boardEntry, error) {
	var out entryList
	resp, err := c.rc.R().SetContext(ctx).
		SetQueryParam("n", strconv.Itoa(n)).
		SetResult(&out).
		Get("/leaderboard/top")
	if err != nil {
		return nil, fmt.Errorf("fetch top %d: %w", n, err)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("fetch top %d: HTTP %d: %s", n, resp.StatusCode(), resp.String())
	}
	return out.Items, nil
}

// standing fetches one DJ's entry and rank.
func (c *apiClient) standing(ctx context.Context, djID string) (standingView, error) {
	var out standingView
	resp, err := c.rc.R().SetContext(ctx).SetResult(&out).Get("/leaderboard/" + djID)
	if err != nil {
		return standingView{}, fmt.Errorf("fetch standing for %s: %w", djID, err)
	}
	if resp.StatusCode() != http.StatusOK {
		return standingView{}, fmt.Errorf("fetch standing for %s: HTTP %d: %s", djID, resp.StatusCode(), resp.String())
	}
	return out, nil
}
