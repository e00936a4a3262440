package constants

// Версия и коммит подставляются при сборке:
//
//	go build -ldflags "-X github.com/Kargones/mediaio/internal/constants.Version=1.4.0 \
//	    -X github.com/Kargones/mediaio/internal/constants.PreCommitHash=$(git rev-parse --short HEAD)"
var (
	Version       = "dev"
	PreCommitHash = ""
)
