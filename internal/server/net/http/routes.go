package http

import (
	"fmt"
	"net/http"
)

// Имена маршрутов в формате namespace:name.
const (
	RouteUserAccount = "accounts:user_account"
	RouteRegister    = "auth:register"
	RouteLogin       = "auth:login"
	RouteRefresh     = "auth:refresh"
	RouteHealthLive  = "health:live"
	RouteHealthReady = "health:ready"
)

// Route — именованный маршрут сервера.
type Route struct {
	Name   string
	Method string
	Path   string
}

// routes — таблица всех маршрутов API, по ней же строится роутер.
var routes = []Route{
	{Name: RouteUserAccount, Method: http.MethodGet, Path: "/accounts/details/"},
	{Name: RouteRegister, Method: http.MethodPost, Path: "/auth/register"},
	{Name: RouteLogin, Method: http.MethodPost, Path: "/auth/login"},
	{Name: RouteRefresh, Method: http.MethodPost, Path: "/auth/refresh"},
	{Name: RouteHealthLive, Method: http.MethodGet, Path: "/health"},
	{Name: RouteHealthReady, Method: http.MethodGet, Path: "/ready"},
}

// Routes возвращает копию таблицы маршрутов.
func Routes() []Route {
	out := make([]Route, len(routes))
	copy(out, routes)
	return out
}

// Reverse возвращает путь маршрута по его имени.
func Reverse(name string) (string, error) {
	r, err := lookup(name)
	if err != nil {
		return "", err
	}
	return r.Path, nil
}

func lookup(name string) (Route, error) {
	for _, r := range routes {
		if r.Name == name {
			return r, nil
		}
	}
	return Route{}, fmt.Errorf("unknown route %q", name)
}

// mustLookup используется при сборке роутера: неизвестное имя — ошибка программиста.
func mustLookup(name string) Route {
	r, err := lookup(name)
	if err != nil {
		panic(err)
	}
	return r
}
