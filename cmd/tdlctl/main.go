package main

import (
	"fmt"
	"os"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	var err error
	switch os.Args[1] {
	case "train":
		err = runTrain(os.Args[2:])
	case "play":
		err = runPlay(os.Args[2:])
	case "bench":
		err = runBench(os.Args[2:])
	case "-h", "-help", "--help", "help":
		usage()
		return
	default:
		fmt.Fprintf(os.Stderr, "tdlctl: unknown command %q\n", os.Args[1])
		usage()
		os.Exit(2)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "tdlctl: %v\n", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `tdlctl trains and plays TD(lambda) checkers/chess agents.

Usage:

	tdlctl train   -store FILE -name NAME [options]
	tdlctl play    -store FILE -white NAME -black NAME [options]
	tdlctl bench   -store FILE -name NAME [options]

Run "tdlctl <command> -h" for the flags each command accepts.`)
}
