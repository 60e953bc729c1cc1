// Package meta loads and stores YAML or JSON documents through any afs
// storage backend, expanding ${env.KEY} expressions on load.
package meta

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path"
	"strings"

	"github.com/viant/afs"
	"github.com/viant/afs/file"
	"github.com/viant/afs/storage"
	"github.com/viant/afs/url"
	"gopkg.in/yaml.v3"
)

// Service resolves relative URLs against baseURL.
type Service struct {
	fs      afs.Service
	baseURL string
	options []storage.Option
	lookup  func(string) (string, bool)
}

// New creates a meta service.
func New(fs afs.Service, baseURL string, options ...storage.Option) *Service {
	if fs == nil {
		fs = afs.New()
	}
	return &Service{fs: fs, baseURL: baseURL, options: options, lookup: os.LookupEnv}
}

// URL returns the absolute form of URL.
func (s *Service) URL(URL string) string {
	if s.baseURL != "" && url.IsRelative(URL) {
		return url.Join(s.baseURL, URL)
	}
	return URL
}

// Load decodes the document at URL into target. Files ending in .json are
// decoded as JSON, everything else as YAML.
func (s *Service) Load(ctx context.Context, URL string, target interface{}) error {
	URL = s.URL(URL)
	data, err := s.fs.DownloadWithURL(ctx, URL, s.options...)
	if err != nil {
		return fmt.Errorf("failed to download %s: %w", URL, err)
	}
	data = []byte(expandEnv(string(data), s.lookup))
	if isJSON(URL) {
		err = json.Unmarshal(data, target)
	} else {
		err = yaml.Unmarshal(data, target)
	}
	if err != nil {
		return fmt.Errorf("failed to decode %s: %w", URL, err)
	}
	return nil
}

// Save encodes source to URL using the format implied by its extension.
func (s *Service) Save(ctx context.Context, URL string, source interface{}) error {
	URL = s.URL(URL)
	var data []byte
	var err error
	if isJSON(URL) {
		data, err = json.MarshalIndent(source, "", "  ")
	} else {
		data, err = yaml.Marshal(source)
	}
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", URL, err)
	}
	if err = s.fs.Upload(ctx, URL, file.DefaultFileOsMode, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("failed to upload %s: %w", URL, err)
	}
	return nil
}

func isJSON(URL string) bool {
	return strings.EqualFold(path.Ext(url.Path(URL)), ".json")
}
