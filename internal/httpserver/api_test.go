package httpserver

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"cafe-backoffice/internal/domain"
	productrepo "cafe-backoffice/internal/repository/product"
	tokenrepo "cafe-backoffice/internal/repository/token"
	userrepo "cafe-backoffice/internal/repository/user"
	usersvc "cafe-backoffice/internal/service/user"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type client struct {
	t      *testing.T
	router http.Handler
	token  string
}

func (c *client) call(method, path string, body interface{}, out interface{}) int {
	c.t.Helper()
	var payload *strings.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(c.t, err)
		payload = strings.NewReader(string(raw))
	} else {
		payload = strings.NewReader("")
	}
	req := httptest.NewRequest(method, path, payload)
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	rec := httptest.NewRecorder()
	c.router.ServeHTTP(rec, req)
	if out != nil && rec.Body.Len() > 0 {
		require.NoError(c.t, json.Unmarshal(rec.Body.Bytes(), out), rec.Body.String())
	}
	return rec.Code
}

func (c *client) login(email, password string) {
	c.t.Helper()
	var resp loginResponse
	code := c.call(http.MethodPost, "/auth/login", map[string]string{"email": email, "password": password}, &resp)
	require.Equal(c.t, http.StatusOK, code)
	require.NotEmpty(c.t, resp.AccessToken)
	c.token = resp.AccessToken
}

func newAPI(t *testing.T) (*client, *usersvc.Service) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	users := usersvc.New(userrepo.NewMemory(), tokenrepo.NewMemory(), time.Hour)
	deps, store := memoryDeps(users)

	mini := decimal.NewFromInt(29)
	require.NoError(t, productrepo.NewKV(store, nil).ReplaceAll(context.Background(), []domain.Product{
		{ID: "1", Name: "Honey Butter Waffle", Category: "WAFFLES", MiniPrice: &mini, RegularPrice: decimal.NewFromInt(49)},
		{ID: "9", Name: "Red Velvet Waffle", Category: "PREMIUM SPECIALS", RegularPrice: decimal.NewFromInt(99)},
	}))
	_, _, err := users.EnsureAdmin(context.Background(), "admin@example.com", "Adminpass1")
	require.NoError(t, err)

	router, err := buildRouter(logDiscard(), nil, deps)
	require.NoError(t, err)
	return &client{t: t, router: router}, users
}

type cartBody struct {
	ID    string            `json:"id"`
	Items []domain.CartItem `json:"items"`
	Total decimal.Decimal   `json:"total"`
}

func TestAPI_CartCheckoutAndReport(t *testing.T) {
	c, _ := newAPI(t)
	c.login("admin@example.com", "Adminpass1")

	var cart cartBody
	require.Equal(t, http.StatusCreated, c.call(http.MethodPost, "/carts", nil, &cart))
	base := "/carts/" + cart.ID

	for i := 0; i < 2; i++ {
		require.Equal(t, http.StatusOK, c.call(http.MethodPost, base+"/items", map[string]string{"productId": "1", "size": "mini"}, &cart))
	}
	require.Equal(t, http.StatusOK, c.call(http.MethodPost, base+"/items", map[string]string{"productId": "9"}, &cart))
	assert.Equal(t, "157", cart.Total.String())

	require.Equal(t, http.StatusOK, c.call(http.MethodDelete, base+"/items/9", nil, &cart))
	assert.Equal(t, "58", cart.Total.String())

	assert.Equal(t, http.StatusNotFound, c.call(http.MethodPost, base+"/items", map[string]string{"productId": "missing"}, nil))

	var order domain.Order
	require.Equal(t, http.StatusCreated, c.call(http.MethodPost, base+"/checkout", nil, &order))
	assert.Equal(t, "58", order.Total.String())
	assert.Equal(t, domain.OrderStatusCompleted, order.Status)

	require.Equal(t, http.StatusOK, c.call(http.MethodGet, base, nil, &cart))
	assert.Empty(t, cart.Items)
	assert.Equal(t, http.StatusUnprocessableEntity, c.call(http.MethodPost, base+"/checkout", nil, nil))

	var orders listResponse[domain.Order]
	require.Equal(t, http.StatusOK, c.call(http.MethodGet, "/orders", nil, &orders))
	require.Equal(t, 1, orders.Count)
	assert.Equal(t, http.StatusOK, c.call(http.MethodGet, "/orders/"+order.ID, nil, nil))

	today := order.Date.Format("2006-01-02")
	var sales struct {
		TotalSales     decimal.Decimal `json:"totalSales"`
		OrderCount     int             `json:"orderCount"`
		CompletedCount int             `json:"completedCount"`
		Orders         []struct {
			Lines []struct {
				Name      string          `json:"name"`
				LineTotal decimal.Decimal `json:"lineTotal"`
			} `json:"lines"`
		} `json:"orders"`
	}
	q := url.Values{"start": {today}, "end": {today}}
	require.Equal(t, http.StatusOK, c.call(http.MethodGet, "/reports/sales?"+q.Encode(), nil, &sales))
	assert.Equal(t, "58", sales.TotalSales.String())
	assert.Equal(t, 1, sales.CompletedCount)
	require.Len(t, sales.Orders, 1)
	assert.Equal(t, "58", sales.Orders[0].Lines[0].LineTotal.String())

	var dash struct {
		Categories []struct {
			Category string `json:"category"`
			Quantity int    `json:"quantity"`
		} `json:"categories"`
	}
	require.Equal(t, http.StatusOK, c.call(http.MethodGet, "/reports/dashboard", nil, &dash))
	require.Len(t, dash.Categories, 1)
	assert.Equal(t, 2, dash.Categories[0].Quantity)

	require.Equal(t, http.StatusNoContent, c.call(http.MethodDelete, base, nil, nil))
	assert.Equal(t, http.StatusNotFound, c.call(http.MethodGet, base, nil, nil))
}

func TestAPI_ProductsAndCategories(t *testing.T) {
	c, _ := newAPI(t)
	c.login("admin@example.com", "Adminpass1")

	var created domain.Product
	require.Equal(t, http.StatusCreated, c.call(http.MethodPost, "/products", map[string]interface{}{
		"name": "Oreo Waffle", "category": "WAFFLES", "miniPrice": 39, "regularPrice": "69.50",
	}, &created))
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "69.5", created.RegularPrice.String())

	assert.Equal(t, http.StatusBadRequest, c.call(http.MethodPost, "/products", map[string]interface{}{"name": "Bad", "regularPrice": -1}, nil))

	var list listResponse[domain.Product]
	require.Equal(t, http.StatusOK, c.call(http.MethodGet, "/products?category=WAFFLES&q=oreo", nil, &list))
	require.Equal(t, 1, list.Count)

	var names listResponse[string]
	require.Equal(t, http.StatusOK, c.call(http.MethodGet, "/products/categories", nil, &names))
	assert.Equal(t, []string{"WAFFLES", "PREMIUM SPECIALS"}, names.Results)

	assert.Equal(t, http.StatusConflict, c.call(http.MethodDelete, "/categories/WAFFLES", nil, nil))
	require.Equal(t, http.StatusCreated, c.call(http.MethodPost, "/categories", map[string]string{"name": "SHAKES"}, nil))
	assert.Equal(t, http.StatusConflict, c.call(http.MethodPost, "/categories", map[string]string{"name": "SHAKES"}, nil))

	require.Equal(t, http.StatusOK, c.call(http.MethodPut, "/categories/"+url.PathEscape("PREMIUM SPECIALS"), map[string]string{"name": "SPECIALS"}, nil))
	var p domain.Product
	require.Equal(t, http.StatusOK, c.call(http.MethodGet, "/products/9", nil, &p))
	assert.Equal(t, "SPECIALS", p.Category)

	require.Equal(t, http.StatusNoContent, c.call(http.MethodDelete, "/products/"+created.ID, nil, nil))
	assert.Equal(t, http.StatusNotFound, c.call(http.MethodGet, "/products/"+created.ID, nil, nil))
}

func TestAPI_UserAdministration(t *testing.T) {
	c, _ := newAPI(t)
	c.login("admin@example.com", "Adminpass1")

	var staff domain.User
	require.Equal(t, http.StatusCreated, c.call(http.MethodPost, "/users", map[string]interface{}{
		"email": "staff@example.com", "password": "Staffpass1", "roles": []string{"moderator"},
	}, &staff))
	assert.True(t, staff.HasRole(domain.RoleModerator))

	var admins listResponse[domain.User]
	require.Equal(t, http.StatusOK, c.call(http.MethodGet, "/users", nil, &admins))
	assert.Equal(t, 2, admins.Count)

	other := &client{t: t, router: c.router}
	other.login("staff@example.com", "Staffpass1")
	assert.Equal(t, http.StatusForbidden, other.call(http.MethodGet, "/users", nil, nil))
	assert.Equal(t, http.StatusOK, other.call(http.MethodGet, "/products", nil, nil))

	require.Equal(t, http.StatusNoContent, other.call(http.MethodPost, "/auth/logout", nil, nil))
	assert.Equal(t, http.StatusUnauthorized, other.call(http.MethodGet, "/products", nil, nil))

	require.Equal(t, http.StatusNoContent, c.call(http.MethodDelete, "/users/"+staff.ID, nil, nil))
	assert.Equal(t, http.StatusNotFound, c.call(http.MethodGet, "/users/"+staff.ID, nil, nil))
}
