package main

import (
	"flag"
	"log"
	"os"
	"strings"

	"github.com/indieinfra/pixrelay/config"
	"github.com/indieinfra/pixrelay/server"
)

func main() {
	log.SetPrefix("pixrelay: ")
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile | log.Lmsgprefix)

	configFile := flag.String("config", "config.yml", "Path to the configuration file (i.e., /etc/pixrelay.yaml)")
	flag.Parse()

	if len(strings.Trim(*configFile, " ")) == 0 {
		flag.Usage()
		os.Exit(1)
	}

	log.Println("loading configuration...")
	cfg, err := config.LoadConfig(*configFile)
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	log.Println("starting http server...")
	if err := server.StartServer(cfg); err != nil {
		log.Fatalf("server exited with error: %v", err)
	}
}
