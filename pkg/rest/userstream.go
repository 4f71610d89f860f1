package rest

import "context"

// UserStream manages the private user-data stream lifecycle: open a listen
// key, keep it alive, close it. The futures variant uses the same protocol on
// a different route.
type UserStream struct {
	client   *Client
	endpoint Endpoint
}

// NewUserStream manages a spot user-data stream.
func NewUserStream(client *Client) *UserStream {
	return &UserStream{client: client, endpoint: SpotUserDataStream}
}

// NewFuturesUserStream manages a futures user-data stream.
func NewFuturesUserStream(client *Client) *UserStream {
	return &UserStream{client: client, endpoint: FuturesUserDataStream}
}

// Start opens a stream and returns its listen key. The key expires unless
// kept alive every 30 minutes.
func (u *UserStream) Start(ctx context.Context) (ListenKey, error) {
	body, err := u.client.Post(ctx, u.endpoint)
	if err != nil {
		return ListenKey{}, err
	}
	return decodeInto[ListenKey](body, "listen key")
}

// KeepAlive extends the listen key's lifetime.
func (u *UserStream) KeepAlive(ctx context.Context, listenKey string) error {
	_, err := u.client.Put(ctx, u.endpoint, listenKey)
	return err
}

// Close invalidates the listen key and ends the stream.
func (u *UserStream) Close(ctx context.Context, listenKey string) error {
	_, err := u.client.Delete(ctx, u.endpoint, listenKey)
	return err
}
