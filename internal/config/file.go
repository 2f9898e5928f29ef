package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	. "github.com/roelfdiedericks/clipscribe/internal/logging"
	"github.com/roelfdiedericks/clipscribe/internal/paths"
	"gopkg.in/yaml.v3"
)

func unmarshalJSON(data []byte, cfg *Config) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	return dec.Decode(cfg)
}

// Marshal encodes cfg in the format implied by ext (".json", ".yaml", ".toml").
func Marshal(cfg *Config, ext string) ([]byte, error) {
	switch strings.ToLower(ext) {
	case ".json", "":
		data, err := json.MarshalIndent(cfg, "", "  ")
		if err != nil {
			return nil, err
		}
		return append(data, '\n'), nil
	case ".yaml", ".yml":
		return yaml.Marshal(cfg)
	case ".toml":
		var buf bytes.Buffer
		if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	default:
		return nil, fmt.Errorf("unsupported config format %q", ext)
	}
}

// Save writes cfg to path atomically. An existing file is kept as
// <path>.bak unless backup is false.
func Save(path string, cfg *Config, backup bool) error {
	path, err := paths.ExpandTilde(path)
	if err != nil {
		return err
	}

	data, err := Marshal(cfg, filepath.Ext(path))
	if err != nil {
		return fmt.Errorf("config: encode: %w", err)
	}

	if backup {
		if _, err := os.Stat(path); err == nil {
			if err := createBackup(path); err != nil {
				L_warn("config: backup failed, continuing with save", "error", err)
			}
		}
	}

	// 0600: the file may hold API keys
	if err := paths.AtomicWrite(path, data, 0600); err != nil {
		return fmt.Errorf("config: save %s: %w", path, err)
	}

	L_debug("config: saved", "path", path)
	return nil
}

// createBackup copies the current file to <path>.bak
func createBackup(path string) error {
	backupPath := path + ".bak"
	if err := copyFile(path, backupPath); err != nil {
		return fmt.Errorf("failed to create backup: %w", err)
	}

	L_debug("config: created backup", "path", backupPath)
	return nil
}

// copyFile copies a file from src to dst, preserving permissions.
func copyFile(src, dst string) error {
	srcFile, err := os.Open(src)
	if err != nil {
		return err
	}
	defer srcFile.Close()

	srcInfo, err := srcFile.Stat()
	if err != nil {
		return err
	}

	dstFile, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, srcInfo.Mode().Perm())
	if err != nil {
		return err
	}
	defer dstFile.Close()

	_, err = io.Copy(dstFile, srcFile)
	return err
}
