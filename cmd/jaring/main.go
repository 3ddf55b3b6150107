// Command jaring serves the web viewer and renders, exports and scripts
// nets of solids from the command line.
//
// Usage:
//
//	jaring serve   [-config jaring.toml]
//	jaring render  -shape box -fold 0.5 -o box.png [-p key=value ...]
//	jaring stl     -shape cone -o cone.stl
//	jaring profile -shape prism -o prism.png
//	jaring script  -out out lesson.jaring
//	jaring calc    -shape cylinder -p r=2 -p t=5
//	jaring rig     -shape cube
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/chazu/jaring/pkg/config"
	"github.com/chazu/jaring/pkg/presets"
	"github.com/chazu/jaring/pkg/server"
)

type command struct {
	name  string
	usage string
	run   func(args []string, stdout io.Writer) error
}

var commands = []command{
	{"serve", "run the HTTP viewer and API", serve},
	{"render", "render a posed shape to PNG", render},
	{"stl", "export a posed shape as STL", exportSTL},
	{"profile", "plot hinge angles against fold value", profilePlot},
	{"script", "run a lesson script", script},
	{"calc", "print volume and surface area", calc},
	{"rig", "dump the hinge tree as YAML and validate it", dumpRig},
}

func main() {
	log.SetFlags(log.LstdFlags)
	if err := dispatch(os.Args[1:], os.Stdout); err != nil {
		log.Fatalf("jaring: %v", err)
	}
}

var errUsage = errors.New("usage")

func dispatch(args []string, stdout io.Writer) error {
	if len(args) == 0 {
		printUsage(stdout)
		return errUsage
	}
	for _, c := range commands {
		if c.name == args[0] {
			return c.run(args[1:], stdout)
		}
	}
	printUsage(stdout)
	return fmt.Errorf("unknown command %q", args[0])
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "usage: jaring <command> [flags]")
	fmt.Fprintln(w)
	for _, c := range commands {
		fmt.Fprintf(w, "  %-8s %s\n", c.name, c.usage)
	}
}

// ============================================================
// Serve
// ============================================================

func serve(args []string, _ io.Writer) error {
	fs := newFlagSet("serve")
	configPath := fs.String("config", "jaring.toml", "path to the TOML config file")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}

	store, err := presets.Open(cfg.Store.Path)
	if err != nil {
		log.Printf("presets disabled: %v", err)
		store = nil
	} else {
		defer store.Close()
	}

	srv := server.New(cfg, store)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errc := make(chan error, 1)
	go func() {
		log.Printf("%s listening on :%s", cfg.Server.AppName, cfg.Server.Port)
		errc <- srv.Listen()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	log.Printf("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
