// Package main is the entry point for the treetext sync tool.
//
// treetext keeps a plain-text file and a persisted structured document
// continuously consistent. "sync" watches the file and folds every edit
// into the stored tree through the bridge; "dump" prints the stored
// tree; "map" prints the offset map between the two representations.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dshills/treetext/internal/bridge"
	"github.com/dshills/treetext/internal/config"
	"github.com/dshills/treetext/internal/doctree"
	"github.com/dshills/treetext/internal/format/lines"
	"github.com/dshills/treetext/internal/offsetmap"
	"github.com/dshills/treetext/internal/script"
	"github.com/dshills/treetext/internal/store"
	"github.com/dshills/treetext/internal/watch"
)

func main() {
	os.Exit(run())
}

func run() int {
	configPath := flag.String("config", "treetext.toml", "path to the TOML config file")
	storePath := flag.String("store", "", "path to the document store (default <file>.db)")
	flag.Usage = usage
	flag.Parse()

	if flag.NArg() < 2 {
		usage()
		return 2
	}
	cmd, file := flag.Arg(0), flag.Arg(1)

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Printf("config: %v", err)
		return 1
	}
	dbPath := *storePath
	if dbPath == "" {
		dbPath = file + ".db"
	}

	switch cmd {
	case "sync":
		return runSync(cfg, file, dbPath)
	case "dump":
		return runDump(dbPath)
	case "map":
		return runMap(cfg, file)
	default:
		usage()
		return 2
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, `usage: treetext [flags] <command> <file>

commands:
  sync   watch <file> and keep the stored document tree in sync
  dump   print the stored tree JSON for <file>
  map    print the offset map between <file> and its parsed tree

flags:
`)
	flag.PrintDefaults()
}

// docEditor is the in-process tree editor the bridge drives.
type docEditor struct {
	root *doctree.Node
}

func (e *docEditor) Root() *doctree.Node { return e.root }

func (e *docEditor) Replace(from, to int, slice []*doctree.Node, _ bridge.EditTag) error {
	children := make([]*doctree.Node, 0, len(e.root.Children)-(to-from)+len(slice))
	children = append(children, e.root.Children[:from]...)
	children = append(children, slice...)
	children = append(children, e.root.Children[to:]...)
	e.root = e.root.WithChildren(children)
	return nil
}

func runSync(cfg config.Config, file, dbPath string) int {
	st, err := store.Open(dbPath)
	if err != nil {
		log.Printf("store: %v", err)
		return 1
	}
	defer st.Close()

	_, storedTree, err := st.LoadPair()
	if err != nil {
		log.Printf("store: %v", err)
		return 1
	}

	fileText := readFile(file)

	ed := &docEditor{root: doctree.NewContainer("doc")}
	b := newBridge(cfg, ed)

	res := b.Bootstrap(fileText, storedTree, "", preference(cfg))
	log.Printf("bootstrap: source=%s stale=%v", res.Source, res.Stale)
	if res.Tree != nil {
		ed.root = res.Tree
	}
	if err := st.SavePair(res.Text, ed.root); err != nil {
		log.Printf("store: %v", err)
		return 1
	}
	if res.Text != fileText {
		if err := os.WriteFile(file, []byte(res.Text), 0o644); err != nil {
			log.Printf("write %s: %v", file, err)
			return 1
		}
	}

	w, err := watch.New(file, time.Duration(cfg.DebounceMS)*time.Millisecond)
	if err != nil {
		log.Printf("watch: %v", err)
		return 1
	}
	defer w.Close()

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
	log.Printf("syncing %s -> %s", file, dbPath)

	for {
		select {
		case <-signals:
			return 0
		case err := <-w.Errors():
			log.Printf("watch: %v", err)
		case _, ok := <-w.Events():
			if !ok {
				return 0
			}
			out := b.ApplyText(readFile(file), bridge.ApplyOptions{})
			switch out.Status {
			case bridge.StatusApplied:
				text, err := b.ExtractText()
				if err != nil {
					log.Printf("extract: %v", err)
					continue
				}
				if err := st.SavePair(text, ed.Root()); err != nil {
					log.Printf("store: %v", err)
					continue
				}
				log.Printf("applied")
			case bridge.StatusUnchanged:
				// Nothing to persist.
			case bridge.StatusFailed:
				log.Printf("apply failed: %s: %v", out.Kind, out.Err)
			}
		}
	}
}

func runDump(dbPath string) int {
	st, err := store.Open(dbPath)
	if err != nil {
		log.Printf("store: %v", err)
		return 1
	}
	defer st.Close()

	js, err := st.TreeJSON()
	if err != nil {
		log.Printf("store: %v", err)
		return 1
	}
	if js == "" {
		log.Printf("no stored tree")
		return 1
	}
	fmt.Println(js)
	return 0
}

func runMap(cfg config.Config, file string) int {
	text := readFile(file)
	tree, err := lines.Parse(text)
	if err != nil {
		log.Printf("parse: %v", err)
		return 1
	}

	opts := []offsetmap.Option{
		offsetmap.WithWarn(func(msg string) { log.Print(msg) }),
	}
	if cfg.MatcherScript != "" {
		src, err := os.ReadFile(cfg.MatcherScript)
		if err != nil {
			log.Printf("matcher script: %v", err)
			return 1
		}
		m, err := script.NewMatcher(string(src),
			script.WithWarn(func(msg string) { log.Print(msg) }))
		if err != nil {
			log.Printf("matcher script: %v", err)
			return 1
		}
		defer m.Close()
		opts = append(opts, offsetmap.WithMatcher(m))
	}

	m := offsetmap.Build(tree, text, opts...)
	for _, seg := range m.Segments {
		fmt.Printf("struct [%d,%d) -> text [%d,%d)\n",
			seg.StructStart, seg.StructEnd, seg.TextStart, seg.TextEnd)
	}
	if m.SkippedNodes > 0 {
		fmt.Printf("skipped leaves: %d\n", m.SkippedNodes)
	}
	return 0
}

func newBridge(cfg config.Config, ed bridge.TreeEditor) *bridge.Bridge {
	opts := []bridge.Option{
		bridge.WithCacheSize(cfg.CacheSize),
		bridge.WithErrorCallback(func(kind bridge.ErrorKind, msg string, cause error) {
			log.Printf("%s: %s: %v", kind, msg, cause)
		}),
		bridge.WithWarnCallback(func(msg string) { log.Print(msg) }),
	}
	if !cfg.NormalizeCRLF {
		opts = append(opts, bridge.WithNormalize(func(s string) string { return s }))
	}
	b := bridge.New(ed, lines.Serialize, lines.Parse, opts...)
	b.Wire()
	return b
}

func preference(cfg config.Config) bridge.Preference {
	if cfg.Prefer == "structured" {
		return bridge.PreferStructured
	}
	return bridge.PreferText
}

func readFile(path string) string {
	data, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	return string(data)
}
