package main

import (
	"fmt"
	"os"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/hashicorp/go-cleanhttp"
)

// Cache is a file-backed cache for API/scrape responses, keyed by sanitized
// URL or caller-provided key, expiring after the configured number of hours.
type Cache struct {
	directory Path
	ttl       time.Duration
}

func newCache(config *Config) *Cache {
	directory := Path(config.CacheDirectory)
	if directory == "" {
		exePath, _ := os.Executable()
		directory = Path(exePath).removingLastPathComponent().appendingPathComponent("cache")
	}
	return &Cache{
		directory: directory,
		ttl:       time.Duration(config.CacheHours) * time.Hour,
	}
}

func (c *Cache) filePath(key string) Path {
	return c.directory.appendingPathComponent(key)
}

func (c *Cache) get(key string) ([]byte, bool) {
	cacheFile := c.filePath(key)
	info, err := os.Stat(string(cacheFile))
	if err != nil {
		return nil, false
	}
	if c.ttl > 0 && time.Since(info.ModTime()) > c.ttl {
		return nil, false
	}
	data, err := os.ReadFile(string(cacheFile))
	if err != nil {
		return nil, false
	}
	return data, true
}

func (c *Cache) write(key string, data []byte) error {
	if !c.directory.isDirectory() {
		if err := os.MkdirAll(string(c.directory), 0755); err != nil {
			return err
		}
	}
	return os.WriteFile(string(c.filePath(key)), data, 0644)
}

func (c *Cache) clear(key string) error {
	cacheFile := c.filePath(key)
	if cacheFile.exists() {
		return os.Remove(string(cacheFile))
	}
	return nil
}

// Fetcher performs HTTP requests through a shared resty client and caches
// responses on disk so repeated runs don't hammer the services.
type Fetcher struct {
	client *resty.Client
	cache  *Cache
}

func newFetcher(config *Config) *Fetcher {
	client := resty.NewWithClient(cleanhttp.DefaultClient())
	client.SetTimeout(30 * time.Second)
	return &Fetcher{client: client, cache: newCache(config)}
}

// FetchURL GETs a URL, serving from and filling the cache.
func (f *Fetcher) FetchURL(url string, headers map[string]string) ([]byte, error) {
	key := ReplaceInvalidFilenameChars(url) + ".txt"
	if data, ok := f.cache.get(key); ok {
		Log("using cached data:", key)
		return data, nil
	}

	resp, err := f.client.R().SetHeaders(headers).Get(url)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode() != 200 {
		return nil, fmt.Errorf("HTTP request %s failed with status: %d", url, resp.StatusCode())
	}

	body := resp.Body()
	if err := f.cache.write(key, body); err != nil {
		Log("error writing cache file:", err)
	}
	return body, nil
}

// PostJSON POSTs a JSON body and caches the response under the given key.
func (f *Fetcher) PostJSON(url string, headers map[string]string, body interface{}, key string) ([]byte, error) {
	if data, ok := f.cache.get(key); ok {
		Log("using cached data:", key)
		return data, nil
	}

	resp, err := f.client.R().SetHeaders(headers).SetBody(body).Post(url)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode() != 200 {
		return nil, fmt.Errorf("HTTP request %s failed with status: %d", url, resp.StatusCode())
	}

	data := resp.Body()
	if err := f.cache.write(key, data); err != nil {
		Log("error writing cache file:", err)
	}
	return data, nil
}

// Download fetches a URL straight to memory, bypassing the cache. Used for
// feed downloads where a stale copy would defeat the point.
func (f *Fetcher) Download(url string, headers map[string]string) ([]byte, error) {
	resp, err := f.client.R().SetHeaders(headers).Get(url)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode() != 200 {
		return nil, fmt.Errorf("HTTP request %s failed with status: %d", url, resp.StatusCode())
	}
	return resp.Body(), nil
}
