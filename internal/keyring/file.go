package keyring

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// FileSystem abstracts filesystem operations needed by FileProvider.
type FileSystem interface {
	ReadFile(name string) ([]byte, error)
	WriteFile(name string, data []byte, perm os.FileMode) error
	MkdirAll(path string, perm os.FileMode) error
}

type osFileSystem struct{}

var _ FileSystem = osFileSystem{}

func (osFileSystem) ReadFile(name string) ([]byte, error) { return os.ReadFile(name) }
func (osFileSystem) WriteFile(name string, data []byte, perm os.FileMode) error {
	return os.WriteFile(name, data, perm)
}
func (osFileSystem) MkdirAll(path string, perm os.FileMode) error { return os.MkdirAll(path, perm) }

// FileProvider keeps a small JSON key/value store under the user's config
// directory and reads the token from its AccessTokenKey entry. The file is
// written with 0600 permissions.
type FileProvider struct {
	// FS provides filesystem operations. Defaults to the real OS filesystem.
	FS FileSystem
	// ConfigDir returns the user's config directory. Defaults to os.UserConfigDir.
	ConfigDir func() (string, error)
}

func (p *FileProvider) fs() FileSystem {
	if p.FS != nil {
		return p.FS
	}
	return osFileSystem{}
}

func (p *FileProvider) storePath() (string, error) {
	configDir := p.ConfigDir
	if configDir == nil {
		configDir = os.UserConfigDir
	}
	dir, err := configDir()
	if err != nil {
		return "", fmt.Errorf("determining config directory: %w", err)
	}
	return filepath.Join(dir, "donate", "credentials.json"), nil
}

func (p *FileProvider) load(path string) (map[string]string, error) {
	data, err := p.fs().ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading credentials file: %w", err)
	}
	values := map[string]string{}
	if len(strings.TrimSpace(string(data))) == 0 {
		return values, nil
	}
	if err := json.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("parsing credentials file: %w", err)
	}
	return values, nil
}

// AccessToken reads the token from the credentials file.
func (p *FileProvider) AccessToken() (string, error) {
	path, err := p.storePath()
	if err != nil {
		return "", err
	}
	values, err := p.load(path)
	if err != nil {
		return "", err
	}
	token := strings.TrimSpace(values[AccessTokenKey])
	if token == "" {
		return "", ErrNoAccessToken
	}
	return token, nil
}

// StoreAccessToken writes the token to the credentials file, keeping any
// other keys already stored there.
func (p *FileProvider) StoreAccessToken(token string) error {
	path, err := p.storePath()
	if err != nil {
		return err
	}
	values, err := p.load(path)
	if err != nil {
		return err
	}
	values[AccessTokenKey] = token
	data, err := json.MarshalIndent(values, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding credentials: %w", err)
	}
	if err := p.fs().MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	if err := p.fs().WriteFile(path, append(data, '\n'), 0600); err != nil {
		return fmt.Errorf("writing credentials file: %w", err)
	}
	return nil
}
