package logic

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"gibber/shared"
	"github.com/go-fed/httpsig"
	"github.com/sony/gobreaker"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"
)

//go:generate mockgen --build_flags=--mod=mod -destination ../test/mocks/mock_apub_client.go -package mocks gibber/logic IApubClient

const (
	AcceptActivityJson  = "application/activity+json, application/ld+json; profile=\"https://www.w3.org/ns/activitystreams\""
	AcceptWebfingerJson = "application/jrd+json, application/json"
	maxLoggedBodyLen    = 200
)

var errServerStatus = errors.New("remote server error")
var errBodyTooLarge = errors.New("response body exceeds size limit")

// IApubClient performs all outbound GETs to remote instances.
// Every failure it returns is a *FetchError.
type IApubClient interface {
	GetJson(ctx context.Context, label, url, accept string, obj any) error
	GetBytes(ctx context.Context, label, url string, maxBytes int64) (body []byte, contentType string, err error)
}

type apubClient struct {
	cfg        *shared.Config
	logger     shared.ILogger
	userAgent  shared.IUserAgent
	metrics    IMetrics
	keyStore   IKeyStore
	httpClient *http.Client
	muBreakers sync.Mutex
	breakers   map[string]*gobreaker.CircuitBreaker
}

type fetchResult struct {
	status      int
	contentType string
	body        []byte
}

func NewApubClient(
	cfg *shared.Config,
	logger shared.ILogger,
	userAgent shared.IUserAgent,
	metrics IMetrics,
	keyStore IKeyStore,
	httpClient *http.Client,
) IApubClient {
	return &apubClient{
		cfg:        cfg,
		logger:     logger,
		userAgent:  userAgent,
		metrics:    metrics,
		keyStore:   keyStore,
		httpClient: httpClient,
		breakers:   map[string]*gobreaker.CircuitBreaker{},
	}
}

func (ac *apubClient) getBreaker(host string) *gobreaker.CircuitBreaker {

	ac.muBreakers.Lock()
	defer ac.muBreakers.Unlock()

	if cb, ok := ac.breakers[host]; ok {
		return cb
	}
	settings := ac.cfg.Breaker
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        host,
		MaxRequests: 1,
		Interval:    time.Duration(settings.OpenSec) * time.Second,
		Timeout:     time.Duration(settings.OpenSec) * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < settings.MinRequests {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return failureRatio >= settings.FailureRatio
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			ac.logger.Warnf("Circuit breaker for '%s' changed from %v to %v", name, from, to)
		},
	})
	ac.breakers[host] = cb
	return cb
}

func (ac *apubClient) GetJson(ctx context.Context, label, url, accept string, obj any) error {

	res, err := ac.get(ctx, label, url, accept, ac.cfg.MaxFetchBytes)
	if err != nil {
		return err
	}
	if err = json.Unmarshal(res.body, obj); err != nil {
		return &FetchError{Url: url, Status: res.status, Err: fmt.Errorf("invalid JSON: %w", err)}
	}
	return nil
}

func (ac *apubClient) GetBytes(ctx context.Context, label, url string, maxBytes int64) ([]byte, string, error) {

	res, err := ac.get(ctx, label, url, "image/*, */*", maxBytes)
	if err != nil {
		return nil, "", err
	}
	return res.body, res.contentType, nil
}

func (ac *apubClient) get(ctx context.Context, label, url, accept string, maxBytes int64) (*fetchResult, error) {

	obs := ac.metrics.StartApubRequestOut(label)
	defer obs.Finish()

	host, err := shared.GetHostName(url)
	if err != nil {
		return nil, &FetchError{Url: url, Err: err}
	}
	if !strings.HasPrefix(url, "https://") {
		return nil, &FetchError{Url: url, Err: errors.New("only https URLs can be fetched")}
	}

	ctx, cancel := context.WithTimeout(ctx, time.Duration(ac.cfg.FetchTimeoutSec)*time.Second)
	defer cancel()

	cb := ac.getBreaker(host)
	resAny, err := cb.Execute(func() (interface{}, error) {
		return ac.doGet(ctx, host, url, accept, maxBytes)
	})
	if err != nil {
		var status int
		if res, ok := resAny.(*fetchResult); ok && res != nil {
			status = res.status
		}
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			ac.logger.Infof("Not fetching %s: circuit breaker for %s is open", url, host)
		}
		return nil, &FetchError{Url: url, Status: status, Err: err}
	}
	res := resAny.(*fetchResult)
	if res.status < 200 || res.status >= 300 {
		ac.logger.Infof("GET %s got status %d: %s", url, res.status,
			shared.TruncateWithEllipsis(string(res.body), maxLoggedBodyLen))
		return nil, &FetchError{Url: url, Status: res.status, Err: errors.New(http.StatusText(res.status))}
	}
	return res, nil
}

// Runs inside the breaker: only transport failures and 5xx responses count against the host.
func (ac *apubClient) doGet(ctx context.Context, host, url, accept string, maxBytes int64) (*fetchResult, error) {

	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, err
	}
	ac.userAgent.AddUserAgent(req)
	req.Header.Set("Accept", accept)
	req.Header.Set("Host", host)
	req.Header.Set("Date", time.Now().UTC().Format(http.TimeFormat))
	if err = ac.sign(req); err != nil {
		ac.logger.Warnf("Failed to sign request to %s; sending unsigned: %v", url, err)
	}

	resp, err := ac.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBytes+1))
	if err != nil {
		return nil, err
	}
	res := &fetchResult{
		status:      resp.StatusCode,
		contentType: resp.Header.Get("Content-Type"),
		body:        body,
	}
	if int64(len(body)) > maxBytes {
		return res, errBodyTooLarge
	}
	if resp.StatusCode >= 500 {
		return res, errServerStatus
	}
	return res, nil
}

func (ac *apubClient) sign(req *http.Request) error {

	privKey, keyId, err := ac.keyStore.GetInstanceKey()
	if err != nil {
		return err
	}
	if privKey == nil {
		return nil
	}
	signer, _, err := httpsig.NewSigner(
		[]httpsig.Algorithm{httpsig.RSA_SHA256},
		httpsig.DigestSha256,
		[]string{httpsig.RequestTarget, "host", "date"},
		httpsig.Signature,
		0)
	if err != nil {
		return err
	}
	return signer.SignRequest(privKey, keyId, req, nil)
}
