package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net"
	"os/signal"
	"runtime"
	"strconv"
	"strings"
	"syscall"

	"github.com/sirupsen/logrus"

	"github.com/cherkasov/gobanlist"
)

func main() {
	flag.Parse()
	if *flagVersion {
		fmt.Println(gobanlist.GetVersion())
		fmt.Printf("Go version: %s\n", runtime.Version())
		return
	}
	if *flagVerbose {
		logrus.SetLevel(logrus.DebugLevel)
	}

	listen := net.JoinHostPort(*flagBind, strconv.Itoa(*flagPort))
	opts := []gobanlist.ServerOption{
		gobanlist.WithListenAddr(listen),
		gobanlist.WithReusePort(*flagReusePort),
		gobanlist.WithTimeout(*flagTimeout),
		gobanlist.WithUDPMaxBytes(*flagUDPMaxBytes),
		gobanlist.WithResolvers(*flagForceTCP, flagResolvers...),
		gobanlist.WithReloadInterval(*flagReload),
		gobanlist.WithHostsFile(*flagHosts),
	}
	if *flagHTTP != "" {
		opts = append(opts, gobanlist.WithHTTPAddr(*flagHTTP))
	}
	for _, path := range flagBanlists {
		opts = append(opts, gobanlist.WithBanlist(path))
	}
	if *flagForbidden != "" {
		opts = append(opts, gobanlist.WithForbiddenDomains(strings.Split(*flagForbidden, ",")...))
	}
	if *flagIPBanlist != "" {
		opts = append(opts, gobanlist.WithIPBanlist(*flagIPBanlist))
	}

	server, err := gobanlist.NewServer(opts...)
	if err != nil {
		logrus.WithError(err).Fatal("Fail to create server.")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := server.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logrus.WithError(err).Fatal("Server stopped with error.")
	}
	logrus.Info("Server stopped.")
}
