package main

import (
	"fmt"
	"log"
	"os"

	"git.lost.host/meutraa/eotw/internal/config"
)

func main() {
	if err := run(os.Args[1:]); nil != err {
		log.Fatalln(err)
	}
}

func run(args []string) error {
	opts, err := config.Parse(args)
	if nil != err {
		return err
	}

	p := &Program{Options: opts}
	if err := p.Init(); nil != err {
		return err
	}
	defer p.Deinit()

	switch opts.Command {
	case config.HistoryCommand:
		return p.History(os.Stdout)
	case config.PlayCommand:
		return p.Play()
	}
	return fmt.Errorf("unknown command %q", opts.Command)
}
