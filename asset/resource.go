package asset

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// A Resource is a readable scene asset (obj, mtl or caustic texture) that
// lives either on the local filesystem or behind an http(s) URL.
type Resource struct {
	io.ReadCloser
	url *url.URL
}

// Path returns the location of this resource.
func (r *Resource) Path() string {
	return r.url.String()
}

// Name returns the last element of the resource path. Texture decoders and
// the scene reader use it for error reporting.
func (r *Resource) Name() string {
	if r.IsRemote() {
		return path.Base(r.url.Path)
	}
	return filepath.Base(r.url.Path)
}

// Ext returns the lower-cased extension of the resource path (including the dot).
func (r *Resource) Ext() string {
	return strings.ToLower(path.Ext(r.url.Path))
}

// IsRemote returns true if the resource is streamed over http/https.
func (r *Resource) IsRemote() bool {
	return r.url.Scheme != ""
}

// Open a resource. If relTo is not nil and location does not specify a
// scheme, location is resolved against the directory containing relTo; this
// lets an obj file reference its mtl libraries and textures by relative path
// regardless of where it was loaded from.
//
// The caller must close the returned resource.
func NewResource(location string, relTo *Resource) (*Resource, error) {
	target, err := resolve(location, relTo)
	if err != nil {
		return nil, err
	}

	var reader io.ReadCloser
	switch target.Scheme {
	case "":
		reader, err = os.Open(filepath.Clean(target.Path))
		if err != nil {
			return nil, err
		}
	case "http", "https":
		resp, err := http.Get(target.String())
		if err != nil {
			return nil, fmt.Errorf("resource: could not fetch '%s': %s", target.String(), err)
		}
		if resp.StatusCode >= 400 {
			resp.Body.Close()
			return nil, fmt.Errorf("resource: could not fetch '%s': status %d", target.String(), resp.StatusCode)
		}
		reader = resp.Body
	default:
		return nil, fmt.Errorf("resource: unsupported scheme '%s'", target.Scheme)
	}

	return &Resource{
		ReadCloser: reader,
		url:        target,
	}, nil
}

// NewResourceFromStream wraps an in-memory reader. Relative lookups against
// the returned resource resolve against name.
func NewResourceFromStream(name string, source io.Reader) *Resource {
	target, err := url.Parse(filepath.ToSlash(name))
	if err != nil {
		target = &url.URL{Path: name}
	}
	return &Resource{
		ReadCloser: io.NopCloser(source),
		url:        target,
	}
}

func resolve(location string, relTo *Resource) (*url.URL, error) {
	target, err := url.Parse(strings.Replace(location, `\`, `/`, -1))
	if err != nil {
		return nil, err
	}

	if target.Scheme != "" || relTo == nil || filepath.IsAbs(target.Path) {
		return target, nil
	}

	// Clone parent url and replace the last path element
	base := *relTo.url
	if base.Scheme != "" {
		base.Path = path.Join(path.Dir(base.Path), target.Path)
		return &base, nil
	}

	dir, err := filepath.Abs(filepath.Dir(base.Path))
	if err != nil {
		return nil, fmt.Errorf("resource: could not detect abs path for %s: %s", base.Path, err)
	}
	return &url.URL{Path: filepath.Join(dir, target.Path)}, nil
}
