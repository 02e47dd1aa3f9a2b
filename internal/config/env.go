package config

import (
	"log/slog"
	"path/filepath"

	"github.com/joho/godotenv"

	"git.home.luguber.info/inful/docpress/internal/logfields"
)

// envFiles are tried in order; existing process variables are never overridden.
var envFiles = []string{".env", ".env.local"}

// loadEnvFiles loads .env files from the working directory and from dir.
func loadEnvFiles(dir string) {
	seen := make(map[string]struct{})
	for _, base := range []string{".", dir} {
		for _, name := range envFiles {
			p := filepath.Join(base, name)
			abs, err := filepath.Abs(p)
			if err != nil {
				continue
			}
			if _, ok := seen[abs]; ok {
				continue
			}
			seen[abs] = struct{}{}
			if err := godotenv.Load(abs); err == nil {
				slog.Debug("Loaded environment variables", logfields.Path(abs))
			}
		}
	}
}
