package logic

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"gibber/shared"
	"github.com/gabriel-vasile/mimetype"
	_ "golang.org/x/image/webp"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"strings"
)

//go:generate mockgen --build_flags=--mod=mod -destination ../test/mocks/mock_media_fetcher.go -package mocks gibber/logic IMediaFetcher

var supportedImageTypes = map[string]bool{
	"image/png":  true,
	"image/jpeg": true,
	"image/gif":  true,
	"image/webp": true,
}

type FetchedMedia struct {
	SourceUrl string
	Data      []byte
	Mime      string
	Extension string // Without the leading dot
	Width     int
	Height    int
}

// IMediaFetcher downloads a remote image and works out what it is from its bytes.
// Every failure it returns is a *MediaFetchError.
type IMediaFetcher interface {
	Fetch(ctx context.Context, url string) (*FetchedMedia, error)
}

type mediaFetcher struct {
	cfg    *shared.Config
	logger shared.ILogger
	client IApubClient
}

func NewMediaFetcher(cfg *shared.Config, logger shared.ILogger, client IApubClient) IMediaFetcher {
	return &mediaFetcher{cfg, logger, client}
}

func (mf *mediaFetcher) Fetch(ctx context.Context, url string) (*FetchedMedia, error) {

	data, contentType, err := mf.client.GetBytes(ctx, "media", url, mf.cfg.MaxMediaBytes)
	if err != nil {
		mf.logger.Infof("Failed to download media %s: %v", url, err)
		return nil, &MediaFetchError{Url: url, Err: err}
	}
	if len(data) == 0 {
		return nil, &MediaFetchError{Url: url, Err: errors.New("empty response body")}
	}

	// The declared content type is only logged; the bytes decide.
	mtype := mimetype.Detect(data)
	mime := mtype.String()
	if ix := strings.IndexByte(mime, ';'); ix != -1 {
		mime = mime[:ix]
	}
	if !supportedImageTypes[mime] {
		mf.logger.Infof("Media %s is not a supported image: detected %s, declared %s", url, mime, contentType)
		return nil, &MediaFetchError{Url: url, Err: fmt.Errorf("unsupported media type %s", mime)}
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		mf.logger.Infof("Media %s could not be decoded as %s: %v", url, mime, err)
		return nil, &MediaFetchError{Url: url, Err: fmt.Errorf("failed to decode %s: %w", mime, err)}
	}

	return &FetchedMedia{
		SourceUrl: url,
		Data:      data,
		Mime:      mime,
		Extension: strings.TrimPrefix(mtype.Extension(), "."),
		Width:     cfg.Width,
		Height:    cfg.Height,
	}, nil
}
