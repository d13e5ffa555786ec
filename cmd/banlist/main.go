// Command banlist reads the stream protocol from stdin: a count line, that
// many banlist domains, another count line, that many query domains. It
// prints "Bad" or "Good" for every query, in order.
package main

import (
	"flag"
	"fmt"
	"os"
	"runtime"

	"github.com/sirupsen/logrus"

	"github.com/cherkasov/gobanlist"
)

var (
	flagVersion = flag.Bool("V", false, "Print version and exit.")
	flagBanlist = flag.String("f", "", "Path to an extra domain banlist file, merged with the one read from stdin.")
)

func main() {
	flag.Parse()
	if *flagVersion {
		fmt.Println(gobanlist.GetVersion())
		fmt.Printf("Go version: %s\n", runtime.Version())
		return
	}

	var extra []gobanlist.Domain
	if *flagBanlist != "" {
		var err error
		extra, err = gobanlist.LoadBanlist(*flagBanlist)
		if err != nil {
			logrus.WithError(err).Fatal("Fail to load banlist file.")
		}
	}

	if err := gobanlist.Check(os.Stdin, os.Stdout, extra...); err != nil {
		logrus.WithError(err).Fatal("Check failed.")
	}
}
