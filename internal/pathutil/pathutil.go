// Package pathutil manages application file paths and locations
package pathutil

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"

	"github.com/thoughtcast/thoughtcast/internal/osutil"
)

const (
	appDir         = "thoughtcast"
	storageDirName = "ThoughtCast"
	audioDirName   = "audio"
	textDirName    = "text"
	ledgerFileName = "sessions.json"
	configFileName = "config.json"
)

// EnvStorageDir overrides the default storage root.
const EnvStorageDir = "THOUGHTCAST_DIR"

// Paths holds all application path configurations.
type Paths struct {
	// Root is the storage directory holding recordings, transcripts, the
	// session ledger and the configuration file
	Root string

	dbFileName     string
	statusFileName string
	logFileName    string

	dataDir string
}

// New computes the application paths. An empty root selects the
// THOUGHTCAST_DIR environment variable, falling back to
// <Documents>/ThoughtCast.
func New(root string) (*Paths, error) {
	p := &Paths{
		Root:           root,
		dbFileName:     "thoughtcast.db",
		statusFileName: "status.json",
		logFileName:    "thoughtcast.log",
	}

	p.applyEnvironmentOverrides()

	if err := p.computePaths(); err != nil {
		return nil, err
	}

	return p, nil
}

func (p *Paths) applyEnvironmentOverrides() {
	if p.Root == "" {
		p.Root = strings.TrimSpace(os.Getenv(EnvStorageDir))
	}

	tcEnv := strings.TrimSpace(os.Getenv("THOUGHTCAST_ENV"))
	if tcEnv != "" {
		p.dbFileName = fmt.Sprintf("thoughtcast_%s.db", tcEnv)
		p.statusFileName = fmt.Sprintf("status_%s.json", tcEnv)
		p.logFileName = fmt.Sprintf("thoughtcast_%s.log", tcEnv)
	}
}

func (p *Paths) computePaths() error {
	if p.Root == "" {
		docs := xdg.UserDirs.Documents
		if docs == "" {
			docs = filepath.Join(xdg.Home, "Documents")
		}

		p.Root = filepath.Join(docs, storageDirName)
	}

	dataDir, err := xdg.DataFile(appDir)
	if err != nil {
		return fmt.Errorf("resolving data directory: %w", err)
	}

	p.dataDir = dataDir

	return nil
}

// EnsureStorage creates the storage root with its audio and text
// subdirectories.
func (p *Paths) EnsureStorage() error {
	for _, dir := range []string{p.AudioDir(), p.TextDir()} {
		if err := os.MkdirAll(dir, osutil.DirPermission); err != nil {
			return fmt.Errorf("creating %s: %w", dir, err)
		}
	}

	return nil
}

// EnsureDataDir creates the directory holding the lock database, the status
// file and the log file.
func (p *Paths) EnsureDataDir() error {
	return os.MkdirAll(filepath.Join(p.dataDir, "log"), osutil.DirPermission)
}

func (p *Paths) AudioDir() string {
	return filepath.Join(p.Root, audioDirName)
}

func (p *Paths) TextDir() string {
	return filepath.Join(p.Root, textDirName)
}

func (p *Paths) LedgerFilePath() string {
	return filepath.Join(p.Root, ledgerFileName)
}

func (p *Paths) ConfigFilePath() string {
	return filepath.Join(p.Root, configFileName)
}

func (p *Paths) DBFilePath() string {
	return filepath.Join(p.dataDir, p.dbFileName)
}

func (p *Paths) StatusFilePath() string {
	return filepath.Join(p.dataDir, p.statusFileName)
}

func (p *Paths) LogFilePath() string {
	return filepath.Join(p.dataDir, "log", p.logFileName)
}

// AudioRelPath returns the path of a session's recording relative to the
// storage root.
func AudioRelPath(id string) string {
	return filepath.ToSlash(filepath.Join(audioDirName, id+".wav"))
}

// TextRelPath returns the path of a session's transcript relative to the
// storage root.
func TextRelPath(id string) string {
	return filepath.ToSlash(filepath.Join(textDirName, id+".txt"))
}

// Abs resolves a path stored relative to the storage root.
func (p *Paths) Abs(rel string) string {
	if filepath.IsAbs(rel) {
		return rel
	}

	return filepath.Join(p.Root, filepath.FromSlash(rel))
}

// StripExtension returns the input file name without its extension.
func StripExtension(fileName string) string {
	return fileName[:len(fileName)-len(filepath.Ext(fileName))]
}

// ExpandHome replaces a leading ~ with the user's home directory.
func ExpandHome(path string) string {
	if path == "~" {
		return xdg.Home
	}

	if strings.HasPrefix(path, "~/") {
		return filepath.Join(xdg.Home, path[2:])
	}

	return path
}
