package version

import "fmt"

// Заполняются через -ldflags "-X github.com/vladislavdragonenkov/shop/internal/version.version=...".
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// Build описывает сборку сервиса.
type Build struct {
	Version string `json:"version"`
	Commit  string `json:"commit"`
	Date    string `json:"date"`
}

// Info возвращает данные текущей сборки.
func Info() Build {
	return Build{Version: version, Commit: commit, Date: date}
}

func (b Build) String() string {
	return fmt.Sprintf("version=%s commit=%s date=%s", b.Version, b.Commit, b.Date)
}

// String возвращает данные сборки одной строкой для логов.
func String() string {
	return Info().String()
}
