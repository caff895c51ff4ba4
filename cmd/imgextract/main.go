// imgextract fetches one image and writes the encoded PNG buffer the viewer
// would hand to its engine.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/llehouerou/imgview/internal/cache"
	"github.com/llehouerou/imgview/internal/config"
	"github.com/llehouerou/imgview/internal/errmsg"
	"github.com/llehouerou/imgview/internal/extract"
	"github.com/llehouerou/imgview/internal/logging"
	"github.com/llehouerou/imgview/internal/source"
)

func main() {
	out := flag.String("o", "-", "output file, - for stdout")
	level := flag.String("log-level", "warn", "log level")
	clearFlag := flag.Bool("clear-cache", false, "empty the viewer's disk cache and exit")
	flag.Usage = func() {
		fmt.Fprintln(flag.CommandLine.Output(), "usage: imgextract [-o file] <locator>")
		fmt.Fprintln(flag.CommandLine.Output(), "       imgextract -clear-cache")
		flag.PrintDefaults()
	}
	flag.Parse()

	if *clearFlag {
		if err := clearCache(""); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}

	if err := run(flag.Arg(0), *out, *level); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(locator, out, level string) error {
	logger := logging.New(os.Stderr, level)

	cfg, err := config.Load()
	if err != nil {
		return errors.New(errmsg.Format(errmsg.OpConfigLoad, err))
	}
	fetch := cfg.GetFetchConfig()

	fetcher := source.NewFetcher(source.FetcherConfig{
		Timeout:   fetch.Timeout(),
		UserAgent: fetch.UserAgent,
		MaxBytes:  fetch.MaxBytes(),
	})

	start := time.Now()
	img, err := fetcher.Fetch(context.Background(), locator)
	if err != nil {
		return errors.New(errmsg.FormatWith(errmsg.OpImageLoad, locator, err))
	}

	buf, err := extract.New().Extract(img)
	if err != nil {
		return errors.New(errmsg.FormatWith(errmsg.OpImageExtract, locator, err))
	}

	w, h := img.NaturalSize()
	logger.Info().
		Str("key", img.Key().String()).
		Str("format", img.Format()).
		Int("width", w).
		Int("height", h).
		Str("size", humanize.IBytes(uint64(buf.Len()))).
		Dur("took", time.Since(start)).
		Msg("image extracted")

	return writeBuffer(out, buf)
}

// clearCache empties the disk cache in dir, or the configured one when dir
// is empty.
func clearCache(dir string) error {
	if dir == "" {
		cfg, err := config.Load()
		if err != nil {
			return errors.New(errmsg.Format(errmsg.OpConfigLoad, err))
		}
		dir = cfg.Cache.Dir
	}
	disk, err := cache.NewDisk(dir, 0)
	if err != nil {
		return errors.New(errmsg.Format(errmsg.OpImageCache, err))
	}
	if err := disk.Clear(); err != nil {
		return errors.New(errmsg.FormatWith(errmsg.OpImageCache, disk.Dir(), err))
	}
	return nil
}

func writeBuffer(path string, buf extract.Buffer) error {
	var w io.Writer = os.Stdout
	if path != "-" {
		f, err := os.Create(path)
		if err != nil {
			return errors.New(errmsg.FormatWith(errmsg.OpFileWrite, path, err))
		}
		defer f.Close()
		w = f
	}

	if _, err := w.Write(buf.Bytes()); err != nil {
		return errors.New(errmsg.FormatWith(errmsg.OpFileWrite, path, err))
	}
	return nil
}
