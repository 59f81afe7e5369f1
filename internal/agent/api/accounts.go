package api

import "context"

// Details запрашивает приветствие текущего пользователя ("Hello, <email>").
//
// Сервер отвечает text/plain, поэтому тело возвращается как есть.
func (c *Client) Details(ctx context.Context, accessToken string) (string, error) {
	return c.GetText(ctx, PathDetails, accessToken)
}
