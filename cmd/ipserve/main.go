// Command ipserve serves lookups against a built MMDB file over HTTP. It
// is not on the build path: it exists so an operator can smoke test a
// produced database by querying it directly, using an independent reader
// rather than this repository's own serializer.
package main

import (
	"flag"
	"net/http"
	"net/netip"

	"github.com/gin-gonic/gin"
	maxminddb "github.com/oschwald/maxminddb-golang/v2"
	"github.com/sirupsen/logrus"
)

func main() {
	dbPath := flag.String("db", "", "path to a built .MMDB file")
	addr := flag.String("addr", ":8080", "listen address")
	flag.Parse()

	log := logrus.New()

	if *dbPath == "" {
		log.Fatal("--db is required")
	}

	db, err := maxminddb.Open(*dbPath)
	if err != nil {
		log.WithError(err).Fatal("failed to open database")
	}
	defer db.Close()

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/lookup", func(c *gin.Context) {
		ipParam := c.Query("ip")
		ip, err := netip.ParseAddr(ipParam)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid ip address"})
			return
		}

		var record map[string]any
		result := db.Lookup(ip)
		if err := result.Err(); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		if !result.Found() {
			c.JSON(http.StatusNotFound, gin.H{"ip": ipParam, "found": false})
			return
		}
		if err := result.Decode(&record); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"ip": ipParam, "found": true, "record": record})
	})

	log.WithField("addr", *addr).Info("serving lookups")
	if err := router.Run(*addr); err != nil {
		log.WithError(err).Fatal("server exited")
	}
}
