package logging

import (
	"os"
	"sort"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Environment variables that configure log levels.
// EnvPrefix+pkg takes precedence over EnvDefault.
const (
	EnvPrefix  = "PARHISTO_LOG_"
	EnvDefault = "PARHISTO_LOG"
)

// PkgLevel represents log level of a package.
type PkgLevel struct {
	pkg string
	lvl byte
	al  zap.AtomicLevel
}

// Package returns package name.
func (pl PkgLevel) Package() string {
	return pl.pkg
}

// Level returns log level as a letter.
func (pl PkgLevel) Level() byte {
	return pl.lvl
}

// ZapLevel returns log level as zapcore.Level.
func (pl PkgLevel) ZapLevel() zapcore.Level {
	return pl.al.Level()
}

// SetLevel assigns log level.
// Only the first letter is significant: V/D=debug, I=info, W=warn, E=error, F/N=fatal.
// Unrecognized input selects info level.
func (pl *PkgLevel) SetLevel(input string) {
	if len(input) == 0 {
		pl.lvl = 'I'
		pl.al.SetLevel(zap.InfoLevel)
		return
	}

	switch input[0] {
	case 'V', 'D', 'v', 'd':
		pl.al.SetLevel(zap.DebugLevel)
	case 'I', 'i':
		pl.al.SetLevel(zap.InfoLevel)
	case 'W', 'w':
		pl.al.SetLevel(zap.WarnLevel)
	case 'E', 'e':
		pl.al.SetLevel(zap.ErrorLevel)
	case 'F', 'N', 'f', 'n':
		pl.al.SetLevel(zap.DPanicLevel)
	default:
		pl.lvl = 'I'
		pl.al.SetLevel(zap.InfoLevel)
		return
	}
	pl.lvl = input[0] &^ 0x20
}

var (
	pkgLevelsLock sync.Mutex
	pkgLevels     = map[string]*PkgLevel{}
)

// ListLevels returns all package levels, sorted by package name.
func ListLevels() (list []PkgLevel) {
	pkgLevelsLock.Lock()
	defer pkgLevelsLock.Unlock()
	for _, pl := range pkgLevels {
		list = append(list, *pl)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].pkg < list[j].pkg })
	return list
}

// FindLevel returns package log level object, or nil if the package has no logger.
func FindLevel(pkg string) (pl *PkgLevel) {
	pkgLevelsLock.Lock()
	defer pkgLevelsLock.Unlock()
	return pkgLevels[pkg]
}

// GetLevel finds or creates package log level object.
func GetLevel(pkg string) (pl *PkgLevel) {
	pkgLevelsLock.Lock()
	defer pkgLevelsLock.Unlock()
	pl = pkgLevels[pkg]
	if pl == nil {
		pl = &PkgLevel{
			pkg: pkg,
			al:  zap.NewAtomicLevel(),
		}
		pl.SetLevel(envLevel(pkg))
		pkgLevels[pkg] = pl
	}
	return pl
}

// SetAllLevels assigns log level to every package that has not been configured via
// a package-specific environment variable.
func SetAllLevels(input string) {
	pkgLevelsLock.Lock()
	defer pkgLevelsLock.Unlock()
	for pkg, pl := range pkgLevels {
		if _, ok := os.LookupEnv(EnvPrefix + pkg); ok {
			continue
		}
		pl.SetLevel(input)
	}
}

func envLevel(pkg string) string {
	v, ok := os.LookupEnv(EnvPrefix + pkg)
	if !ok {
		v = os.Getenv(EnvDefault)
	}
	return v
}
