// Package client talks to the storefront HTTP API.
package client

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/guonaihong/gout"
	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
)

const tokenHeader = "x-auth-token"

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type Product struct {
	ID          string   `json:"_id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Price       float64  `json:"price"`
	ImageURL    string   `json:"img_url,omitempty"`
	ImageURLs   []string `json:"img_urls"`
	Category    string   `json:"category"`
	Show        bool     `json:"show"`
}

type CategoryCount struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
}

type FeedbackAuthor struct {
	ID   string `json:"_id"`
	Name string `json:"name"`
}

type Feedback struct {
	ID        string         `json:"_id"`
	ProductID string         `json:"productId"`
	User      FeedbackAuthor `json:"userId"`
	Feedback  string         `json:"feedback"`
	Rate      int            `json:"rate"`
	CreatedAt time.Time      `json:"createdAt"`
}

type Image struct {
	Name string
	Data []byte
}

type NewProduct struct {
	Name        string
	Description string
	Price       float64
	Category    string
	Show        bool
	Images      []Image
}

type SearchParams struct {
	Search   string
	SortBy   string
	Category string
}

// StatusError is returned for any non-2xx response. Message is the response body.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("storefront: %d %s", e.Code, e.Message)
}

// IsNotFound reports whether err is a 404 from the server.
func IsNotFound(err error) bool {
	var statusErr *StatusError
	return errors.As(err, &statusErr) && statusErr.Code == http.StatusNotFound
}

type Client struct {
	baseURL    string
	httpClient *http.Client
	lang       *Language
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithLanguage sends the shopper's language as Accept-Language on catalog requests.
func WithLanguage(l *Language) Option {
	return func(c *Client) { c.lang = l }
}

// New returns a client for the server at baseURL, e.g. http://localhost:3000.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) productURL(path string) string {
	return c.baseURL + "/api/prod" + path
}

func (c *Client) userURL(path string) string {
	return c.baseURL + "/api/user" + path
}

func (c *Client) headers() gout.H {
	h := gout.H{"Accept": "application/json"}
	if c.lang != nil {
		h["Accept-Language"] = c.lang.Current()
	}
	return h
}

// decode turns a finished exchange into either out or a *StatusError.
func decode(err error, code int, body string, out interface{}) error {
	if err != nil {
		return errors.Wrap(err, "storefront request")
	}
	if code < 200 || code > 299 {
		return &StatusError{Code: code, Message: body}
	}
	if out == nil {
		return nil
	}
	if s, ok := out.(*string); ok {
		*s = body
		return nil
	}
	return errors.Wrap(json.Unmarshal([]byte(body), out), "decode response")
}

func (c *Client) get(ctx context.Context, endpoint string, query gout.H, out interface{}) error {
	var (
		body string
		code int
	)
	flow := gout.New(c.httpClient).GET(endpoint).WithContext(ctx).SetHeader(c.headers())
	if len(query) > 0 {
		flow = flow.SetQuery(query)
	}
	err := flow.BindBody(&body).Code(&code).Do()
	return decode(err, code, body, out)
}

func (c *Client) GetProducts(ctx context.Context) ([]Product, error) {
	var products []Product
	if err := c.get(ctx, c.productURL("/"), nil, &products); err != nil {
		return nil, err
	}
	return products, nil
}

func (c *Client) GetProductByID(ctx context.Context, id string) (*Product, error) {
	var product Product
	if err := c.get(ctx, c.productURL("/"+url.PathEscape(id)), nil, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

func (c *Client) GetCategories(ctx context.Context) ([]CategoryCount, error) {
	var categories []CategoryCount
	if err := c.get(ctx, c.productURL("/categories"), nil, &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

func (c *Client) GetProductsByCategory(ctx context.Context, category string) ([]Product, error) {
	var products []Product
	if err := c.get(ctx, c.productURL("/category/"+url.PathEscape(category)), nil, &products); err != nil {
		return nil, err
	}
	return products, nil
}

func (c *Client) SearchSort(ctx context.Context, params SearchParams) ([]Product, error) {
	query := gout.H{}
	if params.Search != "" {
		query["search"] = params.Search
	}
	if params.SortBy != "" {
		query["sort_by"] = params.SortBy
	}
	if params.Category != "" {
		query["category"] = params.Category
	}

	var products []Product
	if err := c.get(ctx, c.productURL("/searchsort"), query, &products); err != nil {
		return nil, err
	}
	return products, nil
}

func (c *Client) Feedbacks(ctx context.Context, productID string) ([]Feedback, error) {
	var feedbacks []Feedback
	if err := c.get(ctx, c.productURL("/feedbacks/"+url.PathEscape(productID)), nil, &feedbacks); err != nil {
		return nil, err
	}
	return feedbacks, nil
}

// AddProduct uploads the product fields and images as one multipart form.
func (c *Client) AddProduct(ctx context.Context, p NewProduct) (string, error) {
	buf := &bytes.Buffer{}
	writer := multipart.NewWriter(buf)
	fields := [][2]string{
		{"name", p.Name},
		{"description", p.Description},
		{"price", strconv.FormatFloat(p.Price, 'f', -1, 64)},
		{"category", p.Category},
		{"show", strconv.FormatBool(p.Show)},
	}
	for _, field := range fields {
		if err := writer.WriteField(field[0], field[1]); err != nil {
			return "", errors.Wrap(err, "encode product")
		}
	}
	for _, image := range p.Images {
		part, err := writer.CreateFormFile("prodimg", image.Name)
		if err != nil {
			return "", errors.Wrap(err, "encode product image")
		}
		if _, err := part.Write(image.Data); err != nil {
			return "", errors.Wrap(err, "encode product image")
		}
	}
	if err := writer.Close(); err != nil {
		return "", errors.Wrap(err, "encode product")
	}

	var (
		body string
		code int
	)
	headers := c.headers()
	headers["Content-Type"] = writer.FormDataContentType()
	err := gout.New(c.httpClient).POST(c.productURL("/")).
		WithContext(ctx).
		SetHeader(headers).
		SetBody(buf.Bytes()).
		BindBody(&body).
		Code(&code).
		Do()

	var message string
	if err := decode(err, code, body, &message); err != nil {
		return "", err
	}
	return message, nil
}

func (c *Client) postJSON(ctx context.Context, endpoint, token string, payload gout.H, out interface{}) error {
	var (
		body string
		code int
	)
	headers := c.headers()
	if token != "" {
		headers[tokenHeader] = token
	}
	err := gout.New(c.httpClient).POST(endpoint).
		WithContext(ctx).
		SetHeader(headers).
		SetJSON(payload).
		BindBody(&body).
		Code(&code).
		Do()
	return decode(err, code, body, out)
}

func (c *Client) SubmitFeedback(ctx context.Context, token, productID, feedback string, rate int) error {
	return c.postJSON(ctx, c.productURL("/feedback"), token, gout.H{
		"productId": productID,
		"feedback":  feedback,
		"rate":      rate,
	}, nil)
}

func (c *Client) Register(ctx context.Context, username, email, password, name string) error {
	return c.postJSON(ctx, c.userURL("/register"), "", gout.H{
		"username": username,
		"email":    email,
		"password": password,
		"name":     name,
	}, nil)
}

// Login returns the token to pass to SubmitFeedback.
func (c *Client) Login(ctx context.Context, username, password string) (string, error) {
	var resp struct {
		Token string `json:"token"`
	}
	err := c.postJSON(ctx, c.userURL("/login"), "", gout.H{
		"username": username,
		"password": password,
	}, &resp)
	if err != nil {
		return "", err
	}
	if resp.Token == "" {
		return "", errors.New("login response carried no token")
	}
	return resp.Token, nil
}

func (c *Client) Logout(ctx context.Context, token string) error {
	return c.postJSON(ctx, c.userURL("/logout"), token, gout.H{}, nil)
}
