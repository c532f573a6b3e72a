package console

import (
	"fmt"
	"os/exec"
	"runtime"
)

// Opener opens a URL in the operator's browser
type Opener interface {
	Open(url string) error
}

// SystemOpener shells out to the platform's URL handler
type SystemOpener struct {
	// GOOS defaults to runtime.GOOS
	GOOS  string
	start func(name string, args ...string) error
}

func (o SystemOpener) Open(url string) error {
	goos := o.GOOS
	if goos == "" {
		goos = runtime.GOOS
	}
	name, args, err := openCommand(goos, url)
	if err != nil {
		return err
	}
	start := o.start
	if start == nil {
		start = func(name string, args ...string) error {
			return exec.Command(name, args...).Start()
		}
	}
	return start(name, args...)
}

func openCommand(goos, url string) (string, []string, error) {
	switch goos {
	case "linux", "freebsd", "openbsd":
		return "xdg-open", []string{url}, nil
	case "darwin":
		return "open", []string{url}, nil
	case "windows":
		return "rundll32", []string{"url.dll,FileProtocolHandler", url}, nil
	}
	return "", nil, fmt.Errorf("unsupported platform: %s", goos)
}
