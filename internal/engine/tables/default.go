package tables

import (
	"embed"
	"io/fs"
	"sync"
)

//go:embed data/*.yaml
var embedded embed.FS

var (
	defaultOnce   sync.Once
	defaultTables *Tables
	defaultErr    error
)

// Default returns the tables that ship with fairnorm. They are parsed once per
// process and shared.
func Default() (*Tables, error) {
	defaultOnce.Do(func() {
		sub, err := fs.Sub(embedded, "data")
		if err != nil {
			defaultErr = err
			return
		}
		defaultTables, defaultErr = Load(sub)
	})
	return defaultTables, defaultErr
}
