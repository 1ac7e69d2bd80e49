package wallet

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
)

// ProviderConfig configures the wallet provider connection.
type ProviderConfig struct {
	// ReconnectDelay is initial delay before reconnect attempt.
	ReconnectDelay time.Duration
	// MaxReconnectDelay is maximum delay between reconnect attempts.
	MaxReconnectDelay time.Duration
	// PingInterval is interval for sending ping frames.
	PingInterval time.Duration
	// ReadTimeout is timeout for reading messages.
	ReadTimeout time.Duration
	// WriteTimeout is timeout for writing messages.
	WriteTimeout time.Duration
	// RequestTimeout bounds a single RPC round trip.
	RequestTimeout time.Duration
}

// DefaultProviderConfig returns default provider configuration.
func DefaultProviderConfig() ProviderConfig {
	return ProviderConfig{
		ReconnectDelay:    1 * time.Second,
		MaxReconnectDelay: 30 * time.Second,
		PingInterval:      30 * time.Second,
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      10 * time.Second,
		RequestTimeout:    30 * time.Second,
	}
}

// RPCError is a JSON-RPC error returned by the provider. Code 4001 is the
// user rejecting the connection prompt.
type RPCError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *RPCError) Error() string {
	return fmt.Sprintf("provider error %d: %s", e.Code, e.Message)
}

// Provider is a JSON-RPC client for the wallet provider bridge. Calls are
// matched to responses by request ID; accountsChanged and chainChanged
// pushes are routed to the registered handlers. The connection reconnects
// with exponential backoff.
type Provider struct {
	endpoint string
	config   ProviderConfig

	conn      *websocket.Conn
	connMu    sync.Mutex
	closed    atomic.Bool
	requestID atomic.Uint64

	// pending maps request ID to the channel awaiting its response
	pending   map[uint64]chan rpcResponse
	pendingMu sync.Mutex

	onAccountsChanged func(accounts []string)
	onChainChanged    func(chainID string)
	handlerMu         sync.RWMutex

	// done signals shutdown
	done chan struct{}
	wg   sync.WaitGroup

	reconnecting atomic.Bool
}

// NewProvider creates a provider client and connects to the endpoint.
func NewProvider(ctx context.Context, endpoint string, config *ProviderConfig) (*Provider, error) {
	cfg := DefaultProviderConfig()
	if config != nil {
		cfg = *config
	}

	p := &Provider{
		endpoint: endpoint,
		config:   cfg,
		pending:  make(map[uint64]chan rpcResponse),
		done:     make(chan struct{}),
	}

	if err := p.connect(ctx); err != nil {
		return nil, err
	}

	p.wg.Add(1)
	go p.readLoop()

	p.wg.Add(1)
	go p.pingLoop()

	return p, nil
}

// connect establishes the WebSocket connection.
func (p *Provider) connect(ctx context.Context) error {
	p.connMu.Lock()
	defer p.connMu.Unlock()

	dialer := websocket.Dialer{
		HandshakeTimeout: 10 * time.Second,
	}

	conn, _, err := dialer.DialContext(ctx, p.endpoint, nil)
	if err != nil {
		return fmt.Errorf("websocket dial: %w", err)
	}

	p.conn = conn
	return nil
}

// OnAccountsChanged registers the handler for accountsChanged pushes.
func (p *Provider) OnAccountsChanged(fn func(accounts []string)) {
	p.handlerMu.Lock()
	p.onAccountsChanged = fn
	p.handlerMu.Unlock()
}

// OnChainChanged registers the handler for chainChanged pushes.
func (p *Provider) OnChainChanged(fn func(chainID string)) {
	p.handlerMu.Lock()
	p.onChainChanged = fn
	p.handlerMu.Unlock()
}

// Accounts returns the already-authorized accounts without prompting.
func (p *Provider) Accounts(ctx context.Context) ([]string, error) {
	var accounts []string
	if err := p.call(ctx, "eth_accounts", nil, &accounts); err != nil {
		return nil, err
	}
	return accounts, nil
}

// RequestAccounts prompts the user to authorize the connection and returns
// the granted accounts. Rejection surfaces as an *RPCError.
func (p *Provider) RequestAccounts(ctx context.Context) ([]string, error) {
	var accounts []string
	if err := p.call(ctx, "eth_requestAccounts", nil, &accounts); err != nil {
		return nil, err
	}
	return accounts, nil
}

// ChainID returns the provider's active chain ID.
func (p *Provider) ChainID(ctx context.Context) (string, error) {
	var chainID string
	if err := p.call(ctx, "eth_chainId", nil, &chainID); err != nil {
		return "", err
	}
	return chainID, nil
}

// call performs one JSON-RPC round trip and decodes the result.
func (p *Provider) call(ctx context.Context, method string, params []any, result any) error {
	if p.closed.Load() {
		return fmt.Errorf("provider closed")
	}

	reqID := p.requestID.Add(1)
	req := rpcRequest{
		JSONRPC: "2.0",
		ID:      reqID,
		Method:  method,
		Params:  params,
	}

	respCh := make(chan rpcResponse, 1)
	p.pendingMu.Lock()
	p.pending[reqID] = respCh
	p.pendingMu.Unlock()

	p.connMu.Lock()
	if p.conn == nil {
		p.connMu.Unlock()
		p.dropPending(reqID)
		return fmt.Errorf("not connected")
	}
	p.conn.SetWriteDeadline(time.Now().Add(p.config.WriteTimeout))
	err := p.conn.WriteJSON(req)
	p.connMu.Unlock()

	if err != nil {
		p.dropPending(reqID)
		return fmt.Errorf("write %s: %w", method, err)
	}

	select {
	case resp, ok := <-respCh:
		if !ok {
			return fmt.Errorf("provider closed")
		}
		if resp.Error != nil {
			return resp.Error
		}
		if result != nil {
			if err := json.Unmarshal(resp.Result, result); err != nil {
				return fmt.Errorf("decode %s result: %w", method, err)
			}
		}
		return nil
	case <-time.After(p.config.RequestTimeout):
		p.dropPending(reqID)
		return fmt.Errorf("%s timeout after %s", method, p.config.RequestTimeout)
	case <-p.done:
		return fmt.Errorf("provider closed")
	case <-ctx.Done():
		p.dropPending(reqID)
		return ctx.Err()
	}
}

func (p *Provider) dropPending(reqID uint64) {
	p.pendingMu.Lock()
	delete(p.pending, reqID)
	p.pendingMu.Unlock()
}

// Close closes the provider connection.
func (p *Provider) Close() error {
	if p.closed.Swap(true) {
		return nil // Already closed
	}

	close(p.done)

	p.connMu.Lock()
	if p.conn != nil {
		p.conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		p.conn.Close()
	}
	p.connMu.Unlock()

	p.pendingMu.Lock()
	for id, ch := range p.pending {
		close(ch)
		delete(p.pending, id)
	}
	p.pendingMu.Unlock()

	p.wg.Wait()
	return nil
}

// readLoop reads messages and dispatches responses and pushes.
func (p *Provider) readLoop() {
	defer p.wg.Done()

	reconnectDelay := p.config.ReconnectDelay

	for !p.closed.Load() {
		p.connMu.Lock()
		conn := p.conn
		p.connMu.Unlock()

		if conn == nil {
			select {
			case <-p.done:
				return
			case <-time.After(100 * time.Millisecond):
				continue
			}
		}

		conn.SetReadDeadline(time.Now().Add(p.config.ReadTimeout))

		_, message, err := conn.ReadMessage()
		if err != nil {
			if p.closed.Load() {
				return
			}

			if !p.reconnecting.Swap(true) {
				go p.reconnect(reconnectDelay)
			}

			reconnectDelay = reconnectDelay * 2
			if reconnectDelay > p.config.MaxReconnectDelay {
				reconnectDelay = p.config.MaxReconnectDelay
			}

			select {
			case <-p.done:
				return
			case <-time.After(100 * time.Millisecond):
				continue
			}
		}

		reconnectDelay = p.config.ReconnectDelay

		p.handleMessage(message)
	}
}

// reconnect waits out the backoff delay and re-dials. In-flight calls fail
// on their own timeouts; push handlers stay registered.
func (p *Provider) reconnect(delay time.Duration) {
	defer p.reconnecting.Store(false)

	if p.closed.Load() {
		return
	}

	select {
	case <-p.done:
		return
	case <-time.After(delay):
	}

	p.connMu.Lock()
	if p.conn != nil {
		p.conn.Close()
		p.conn = nil
	}
	p.connMu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := p.connect(ctx); err != nil {
		// Reconnect failed, will retry on next read error
		return
	}
}

// handleMessage routes one incoming frame: frames with a method are pushes,
// the rest are responses matched to a pending request.
func (p *Provider) handleMessage(message []byte) {
	var env struct {
		ID     uint64          `json:"id"`
		Method string          `json:"method"`
		Params json.RawMessage `json:"params"`
		Result json.RawMessage `json:"result"`
		Error  *RPCError       `json:"error"`
	}
	if err := json.Unmarshal(message, &env); err != nil {
		return
	}

	if env.Method != "" {
		p.handlePush(env.Method, env.Params)
		return
	}

	p.pendingMu.Lock()
	ch, ok := p.pending[env.ID]
	if ok {
		delete(p.pending, env.ID)
	}
	p.pendingMu.Unlock()

	if ok {
		ch <- rpcResponse{Result: env.Result, Error: env.Error}
	}
}

// handlePush dispatches a provider push to its handler.
func (p *Provider) handlePush(method string, params json.RawMessage) {
	switch method {
	case "accountsChanged":
		var accounts []string
		if err := json.Unmarshal(params, &accounts); err != nil {
			return
		}
		p.handlerMu.RLock()
		fn := p.onAccountsChanged
		p.handlerMu.RUnlock()
		if fn != nil {
			fn(accounts)
		}
	case "chainChanged":
		var chainID string
		if err := json.Unmarshal(params, &chainID); err != nil {
			return
		}
		p.handlerMu.RLock()
		fn := p.onChainChanged
		p.handlerMu.RUnlock()
		if fn != nil {
			fn(chainID)
		}
	}
}

// pingLoop sends periodic ping frames to keep the connection alive.
func (p *Provider) pingLoop() {
	defer p.wg.Done()

	ticker := time.NewTicker(p.config.PingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-p.done:
			return
		case <-ticker.C:
			p.connMu.Lock()
			if p.conn != nil {
				p.conn.SetWriteDeadline(time.Now().Add(p.config.WriteTimeout))
				// A write failure means the connection is dead; the
				// reader handles reconnect.
				_ = p.conn.WriteMessage(websocket.PingMessage, nil)
			}
			p.connMu.Unlock()
		}
	}
}

// JSON-RPC message types

type rpcRequest struct {
	JSONRPC string `json:"jsonrpc"`
	ID      uint64 `json:"id"`
	Method  string `json:"method"`
	Params  []any  `json:"params,omitempty"`
}

type rpcResponse struct {
	Result json.RawMessage
	Error  *RPCError
}
