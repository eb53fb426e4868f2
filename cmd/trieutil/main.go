// trieutil is a small command-line front end for driving a patricia
// trie against a persistent store, grounded in the teacher/pack's
// cli.v1-based command tools (vechain-thor's disco and thor commands).
package main

import (
	"encoding/hex"
	"fmt"
	"os"

	"github.com/ethereum/go-ethereum/log"
	"github.com/pkg/errors"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/oasislabs/patriciatrie/store"
	"github.com/oasislabs/patriciatrie/trie"
)

var (
	version   string
	gitCommit string

	dataDirFlag = cli.StringFlag{
		Name:  "datadir",
		Value: "./trieutil-data",
		Usage: "LevelDB directory backing the trie",
	}
	rootFlag = cli.StringFlag{
		Name:  "root",
		Usage: "hex-encoded trie root (omit for the empty trie)",
	}
	verbosityFlag = cli.IntFlag{
		Name:  "verbosity",
		Value: int(log.LevelInfo),
		Usage: "log verbosity (0-9)",
	}
)

func openStore(ctx *cli.Context) (*store.LevelStore, error) {
	s, err := store.NewLevelStore(ctx.GlobalString(dataDirFlag.Name), store.Options{CacheCapacity: 64, OpenFiles: 64})
	if err != nil {
		return nil, errors.Wrap(err, "-datadir")
	}
	return s, nil
}

func parseRoot(ctx *cli.Context) (*store.Hash, error) {
	hexRoot := ctx.GlobalString(rootFlag.Name)
	if hexRoot == "" {
		return nil, nil
	}
	b, err := hex.DecodeString(hexRoot)
	if err != nil {
		return nil, errors.Wrap(err, "-root")
	}
	h := store.BytesToHash(b)
	return &h, nil
}

func cmdGet(ctx *cli.Context) error {
	if ctx.NArg() != 1 {
		return errors.New("usage: trieutil get <key>")
	}
	s, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer s.Close()
	root, err := parseRoot(ctx)
	if err != nil {
		return err
	}
	val, found, err := trie.Get(s, root, []byte(ctx.Args()[0]))
	if err != nil {
		return err
	}
	if !found {
		return errors.New("key not found")
	}
	fmt.Println(string(val))
	return nil
}

func cmdInsert(ctx *cli.Context) error {
	if ctx.NArg() != 2 {
		return errors.New("usage: trieutil insert <key> <value>")
	}
	s, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer s.Close()
	root, err := parseRoot(ctx)
	if err != nil {
		return err
	}
	newRoot, err := trie.Insert(s, root, []byte(ctx.Args()[0]), []byte(ctx.Args()[1]))
	if err != nil {
		return err
	}
	fmt.Println(newRoot.String())
	return nil
}

func cmdRemove(ctx *cli.Context) error {
	if ctx.NArg() != 1 {
		return errors.New("usage: trieutil remove <key>")
	}
	s, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer s.Close()
	root, err := parseRoot(ctx)
	if err != nil {
		return err
	}
	newRoot, err := trie.Remove(s, root, []byte(ctx.Args()[0]))
	if err != nil {
		return err
	}
	if newRoot == nil {
		fmt.Println("(empty)")
		return nil
	}
	fmt.Println(newRoot.String())
	return nil
}

func cmdPrune(ctx *cli.Context) error {
	if ctx.NArg() != 1 {
		return errors.New("usage: trieutil prune <unix-seconds>")
	}
	s, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer s.Close()
	var now uint64
	if _, err := fmt.Sscanf(ctx.Args()[0], "%d", &now); err != nil {
		return errors.Wrap(err, "<unix-seconds>")
	}
	removed, err := s.Prune(now)
	if err != nil {
		return err
	}
	fmt.Printf("pruned %d blobs\n", removed)
	return nil
}

func before(ctx *cli.Context) error {
	glogger := log.NewGlogHandler(log.NewTerminalHandler(os.Stderr, false))
	glogger.Verbosity(log.Level(ctx.GlobalInt(verbosityFlag.Name)))
	log.SetDefault(log.NewLogger(glogger))
	return nil
}

func main() {
	app := cli.App{
		Version: fmt.Sprintf("%s-%s", version, gitCommit),
		Name:    "trieutil",
		Usage:   "inspect and mutate a patricia trie store from the command line",
		Flags:   []cli.Flag{dataDirFlag, rootFlag, verbosityFlag},
		Before:  before,
		Commands: []cli.Command{
			{Name: "get", Usage: "look up a key", Action: cmdGet},
			{Name: "insert", Usage: "set a key to a value, printing the new root", Action: cmdInsert},
			{Name: "remove", Usage: "delete a key, printing the new root", Action: cmdRemove},
			{Name: "prune", Usage: "reclaim blobs whose expiry has passed", Action: cmdPrune},
		},
	}
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
