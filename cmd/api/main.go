package main

import (
	"io"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kalpovskii/taskmanager/internal/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	if err := cfg.ValidateAPI(); err != nil {
		log.Fatal(err)
	}

	log.Printf("API started on :%s", cfg.APIPort)
	log.Printf("Proxying to %s", cfg.DBServiceURL)

	r := newRouter(cfg.DBServiceURL, http.DefaultClient)
	log.Fatal(r.Run(":" + cfg.APIPort))
}

func newRouter(dbURL string, client *http.Client) *gin.Engine {
	r := gin.Default()

	proxy := proxyToDB(dbURL, client)
	r.Any("/tasks", proxy)
	r.Any("/tasks/:id", proxy)

	return r
}

// proxyToDB forwards the request as is, keeping method, path, query, headers
// and body, and copies the task service's response back.
func proxyToDB(dbURL string, client *http.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		target := dbURL + c.Request.URL.Path
		if q := c.Request.URL.RawQuery; q != "" {
			target += "?" + q
		}

		req, err := http.NewRequestWithContext(c.Request.Context(), c.Request.Method, target, c.Request.Body)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		req.Header = c.Request.Header.Clone()

		resp, err := client.Do(req)
		if err != nil {
			c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
			return
		}
		defer resp.Body.Close()

		for key, values := range resp.Header {
			for _, v := range values {
				c.Writer.Header().Add(key, v)
			}
		}
		c.Status(resp.StatusCode)
		if _, err := io.Copy(c.Writer, resp.Body); err != nil {
			log.Printf("proxy %s %s: copy response: %v", c.Request.Method, target, err)
		}
	}
}
