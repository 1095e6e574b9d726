package inventory

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
)

// Client talks to the inventory server on behalf of the station.
//
// Redirects are never followed: the server answers unauthenticated API
// calls with a redirect to its login page, which surfaces here as
// ErrLoginRequired. The client sets no request timeout.
type Client struct {
	Base string
	HTTP *http.Client
}

// New builds a client for base. A nil httpClient gets a fresh one; a
// cookie jar is attached when missing so the login session sticks.
func New(base string, httpClient *http.Client) (*Client, error) {
	var hc http.Client
	if httpClient != nil {
		hc = *httpClient
	}
	if hc.Jar == nil {
		jar, err := cookiejar.New(nil)
		if err != nil {
			return nil, fmt.Errorf("cookie jar: %w", err)
		}
		hc.Jar = jar
	}
	hc.CheckRedirect = func(*http.Request, []*http.Request) error {
		return http.ErrUseLastResponse
	}
	return &Client{Base: strings.TrimRight(base, "/"), HTTP: &hc}, nil
}

// Login authenticates with the server's login form.
func (c *Client) Login(ctx context.Context, username, password string) error {
	form := url.Values{}
	form.Set("username", username)
	form.Set("password", password)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Base+"/", strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return &TransportError{Op: "login", Err: err}
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode/100 != 3 {
		return &EndpointError{Op: "login", StatusCode: resp.StatusCode}
	}
	loc, err := resp.Location()
	if err != nil {
		return &EndpointError{Op: "login", StatusCode: resp.StatusCode, Message: "missing redirect location"}
	}
	if strings.TrimRight(loc.Path, "/") != "/home" {
		return ErrLoginFailed
	}
	return nil
}

// StockIn submits a batch. Success is the HTTP status alone; the returned
// message is whatever the server said.
func (c *Client) StockIn(ctx context.Context, barcodes []string) (string, error) {
	var out MessageResponse
	body := struct {
		Barcodes []string `json:"barcodes"`
	}{Barcodes: barcodes}
	if body.Barcodes == nil {
		body.Barcodes = []string{}
	}
	resp, err := c.do(ctx, "stock-in", http.MethodPost, "/api/stock-in", body)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if err := checkStatus("stock-in", resp); err != nil {
		return "", err
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		slog.Debug("inventory: stock-in response had no readable message", slog.Int("status", resp.StatusCode), slog.Any("err", err))
		return "", nil
	}
	return out.Message, nil
}

// StockOut activates a single barcode. The body's status field carries the
// verdict, so non-2xx responses with a JSON body are returned as results.
func (c *Client) StockOut(ctx context.Context, barcode string) (StockOutResult, error) {
	var out StockOutResult
	body := struct {
		Barcode string `json:"barcode"`
	}{Barcode: barcode}
	resp, err := c.do(ctx, "stock-out", http.MethodPost, "/api/stock-out", body)
	if err != nil {
		return out, err
	}
	defer resp.Body.Close()
	if resp.StatusCode/100 == 3 {
		return out, ErrLoginRequired
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return out, &EndpointError{Op: "stock-out", StatusCode: resp.StatusCode, Message: "unreadable response"}
	}
	return out, nil
}

func (c *Client) ListStock(ctx context.Context) ([]StockRow, error) {
	rows := make([]StockRow, 0)
	err := c.getJSON(ctx, "get stock", "/api/get-stock", &rows)
	return rows, err
}

// ListActivated returns activated stock, optionally filtered by activation
// date (YYYY-MM-DD).
func (c *Client) ListActivated(ctx context.Context, date string) ([]StockRow, error) {
	path := "/api/get-activated"
	if date != "" {
		path += "?date=" + url.QueryEscape(date)
	}
	rows := make([]StockRow, 0)
	err := c.getJSON(ctx, "get activated", path, &rows)
	return rows, err
}

func (c *Client) StockSummary(ctx context.Context) ([]SummaryRow, error) {
	rows := make([]SummaryRow, 0)
	err := c.getJSON(ctx, "get stock summary", "/api/get-stock-summary", &rows)
	return rows, err
}

func (c *Client) ListUsers(ctx context.Context) ([]User, error) {
	users := make([]User, 0)
	err := c.getJSON(ctx, "list users", "/api/admin/users", &users)
	return users, err
}

func (c *Client) AddUser(ctx context.Context, username, password, role string) (string, error) {
	return c.postMessage(ctx, "add user", "/api/admin/users/add", map[string]string{
		"username": username,
		"password": password,
		"role":     role,
	})
}

func (c *Client) DeleteUser(ctx context.Context, id int64) (string, error) {
	return c.postMessage(ctx, "delete user", "/api/admin/users/delete", map[string]int64{"id": id})
}

func (c *Client) UpdatePassword(ctx context.Context, userID int64, password string) (string, error) {
	return c.postMessage(ctx, "update password", "/api/admin/users/update-password", map[string]any{
		"user_id":  userID,
		"password": password,
	})
}

// DownloadReport fetches the CSV report for status (StatusInStock or
// StatusActivated); date only applies to activated reports.
func (c *Client) DownloadReport(ctx context.Context, status, date string) (Report, error) {
	q := url.Values{}
	q.Set("status", status)
	if date != "" {
		q.Set("date", date)
	}
	resp, err := c.do(ctx, "download report", http.MethodGet, "/api/admin/download-report?"+q.Encode(), nil)
	if err != nil {
		return Report{}, err
	}
	defer resp.Body.Close()
	if resp.StatusCode/100 == 3 {
		return Report{}, ErrLoginRequired
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Report{}, &TransportError{Op: "download report", Err: err}
	}
	if resp.StatusCode/100 != 2 {
		return Report{}, &EndpointError{Op: "download report", StatusCode: resp.StatusCode, Message: strings.TrimSpace(string(body))}
	}
	return Report{Filename: attachmentFilename(resp.Header.Get("Content-Disposition")), CSV: body}, nil
}

func (c *Client) postMessage(ctx context.Context, op, path string, in any) (string, error) {
	resp, err := c.do(ctx, op, http.MethodPost, path, in)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if err := checkStatus(op, resp); err != nil {
		return "", err
	}
	var out MessageResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("%s: decode response: %w", op, err)
	}
	return out.Message, nil
}

func (c *Client) getJSON(ctx context.Context, op, path string, out any) error {
	resp, err := c.do(ctx, op, http.MethodGet, path, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if err := checkStatus(op, resp); err != nil {
		return err
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s: decode response: %w", op, err)
	}
	return nil
}

func (c *Client) do(ctx context.Context, op, method, path string, in any) (*http.Response, error) {
	var body io.Reader
	if in != nil {
		buf := new(bytes.Buffer)
		if err := json.NewEncoder(buf).Encode(in); err != nil {
			return nil, fmt.Errorf("%s: encode request: %w", op, err)
		}
		body = buf
	}
	req, err := http.NewRequestWithContext(ctx, method, c.Base+path, body)
	if err != nil {
		return nil, err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, &TransportError{Op: op, Err: err}
	}
	return resp, nil
}

// checkStatus maps redirects and non-2xx statuses to errors, reading the
// server's message from the body when it is JSON.
func checkStatus(op string, resp *http.Response) error {
	if resp.StatusCode/100 == 2 {
		return nil
	}
	if resp.StatusCode/100 == 3 {
		return ErrLoginRequired
	}
	var out MessageResponse
	raw, _ := io.ReadAll(resp.Body)
	if err := json.Unmarshal(raw, &out); err != nil || out.Message == "" {
		out.Message = strings.TrimSpace(string(raw))
	}
	return &EndpointError{Op: op, StatusCode: resp.StatusCode, Message: out.Message}
}

func attachmentFilename(disposition string) string {
	if disposition == "" {
		return ""
	}
	_, params, err := mime.ParseMediaType(disposition)
	if err != nil {
		return ""
	}
	return params["filename"]
}
