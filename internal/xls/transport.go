package xls

import "os"

// StdRWC is a read-write-closer over stdio, usable as a jsonrpc2
// transport for a language server invoked as a subprocess by an
// editor. Grounded on upbound-up/internal/xpls.StdRWC.
type StdRWC struct{}

func (StdRWC) Read(p []byte) (int, error) {
	return os.Stdin.Read(p)
}

func (StdRWC) Write(p []byte) (int, error) {
	return os.Stdout.Write(p)
}

func (StdRWC) Close() error {
	if err := os.Stdin.Close(); err != nil {
		return err
	}
	return os.Stdout.Close()
}
