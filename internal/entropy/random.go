// Package entropy provides the simulation's random sources.
// Simulation randomness is always a seeded PCG so runs can be replayed.
// When no seed is configured, one is drawn from random.org (if an API key is
// set) or crypto/rand.
package entropy

import (
	"bytes"
	"crypto/rand"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"hash/fnv"
	"io"
	"log/slog"
	mrand "math/rand/v2"
	"net/http"
	"time"
)

// Rand is the subset of *rand.Rand the simulation draws from.
type Rand interface {
	IntN(n int) int
	Float64() float64
}

// New returns a deterministic generator for the given seed.
func New(seed int64) *mrand.Rand {
	// Non-cryptographic PRNG is intentional for replayable runs.
	// #nosec G404
	return mrand.New(mrand.NewPCG(seedWord(seed, "a"), seedWord(seed, "b")))
}

// Derive returns a sub-seed for an independent stream (e.g. the noise field).
func Derive(seed int64, salt string) int64 {
	return int64(seedWord(seed, salt) >> 1)
}

func seedWord(seed int64, salt string) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(fmt.Sprintf("%d:%s", seed, salt)))
	return h.Sum64()
}

const randomOrgEndpoint = "https://api.random.org/json-rpc/4/invoke"

// Client fetches true random integers from random.org.
type Client struct {
	apiKey   string
	endpoint string
	client   *http.Client
}

// NewClient creates a random.org client. Returns nil if apiKey is empty.
func NewClient(apiKey string) *Client {
	if apiKey == "" {
		return nil
	}
	return &Client{
		apiKey:   apiKey,
		endpoint: randomOrgEndpoint,
		client:   &http.Client{Timeout: 15 * time.Second},
	}
}

// Enabled returns true if the client has a valid API key.
func (c *Client) Enabled() bool {
	return c != nil && c.apiKey != ""
}

// Seed returns a fresh non-zero seed from the client if available, or
// crypto/rand.
func Seed(c *Client) int64 {
	if c.Enabled() {
		if s, err := c.fetchSeed(); err == nil && s != 0 {
			return s
		} else if err != nil {
			slog.Debug("random.org seed failed, using crypto/rand", "error", err)
		}
	}
	return cryptoSeed()
}

func (c *Client) fetchSeed() (int64, error) {
	req := map[string]any{
		"jsonrpc": "2.0",
		"method":  "generateIntegers",
		"params": map[string]any{
			"apiKey": c.apiKey,
			"n":      2,
			"min":    0,
			"max":    1<<30 - 1,
		},
		"id": 1,
	}

	body, err := json.Marshal(req)
	if err != nil {
		return 0, fmt.Errorf("marshal: %w", err)
	}

	resp, err := c.client.Post(c.endpoint, "application/json", bytes.NewReader(body))
	if err != nil {
		return 0, fmt.Errorf("fetch: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, fmt.Errorf("read: %w", err)
	}

	var result struct {
		Result struct {
			Random struct {
				Data []int64 `json:"data"`
			} `json:"random"`
		} `json:"result"`
		Error *struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(respBody, &result); err != nil {
		return 0, fmt.Errorf("parse: %w", err)
	}
	if result.Error != nil {
		return 0, fmt.Errorf("api: %s", result.Error.Message)
	}
	data := result.Result.Random.Data
	if len(data) < 2 {
		return 0, fmt.Errorf("api: short response (%d values)", len(data))
	}
	return data[0]<<30 | data[1], nil
}

func cryptoSeed() int64 {
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		// This should never happen; fall back to the clock.
		return time.Now().UnixNano()
	}
	s := int64(binary.LittleEndian.Uint64(buf[:]) >> 1)
	if s == 0 {
		s = 1
	}
	return s
}
