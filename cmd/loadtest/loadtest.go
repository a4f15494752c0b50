// Command loadtest posts messages concurrently to a running board server and
// then checks that every one of them is listed.
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"sync"
	"time"
)

func main() {
	endpoint := flag.String("url", "http://localhost:8080/", "board endpoint")
	total := flag.Int("n", 200, "number of messages to post")
	workers := flag.Int("c", 16, "concurrent posters")
	flag.Parse()

	client := &http.Client{Timeout: 10 * time.Second}
	start := time.Now().UTC().Add(-time.Second)
	runID := fmt.Sprintf("loadtest-%d", time.Now().UnixNano())

	jobs := make(chan int)
	var (
		wg     sync.WaitGroup
		mu     sync.Mutex
		status = map[int]int{}
	)
	for range *workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				code := post(client, *endpoint, runID, i)
				mu.Lock()
				status[code]++
				mu.Unlock()
			}
		}()
	}
	for i := range *total {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	log.Printf("posted %d messages in %s: status counts %v", *total, time.Since(start), status)

	res, err := client.Get(*endpoint + "?after=" + start.Format(time.RFC3339))
	if err != nil {
		log.Fatalf("failed to send GET request to [%s]: %v", *endpoint, err)
	}
	defer res.Body.Close()

	page, err := io.ReadAll(res.Body)
	if err != nil {
		log.Fatalf("failed to read page: %v", err)
	}

	listed := strings.Count(string(page), runID)
	log.Printf("GET status %d, %d bytes, %d/%d messages from this run listed",
		res.StatusCode, len(page), listed, status[http.StatusOK])
}

func post(client *http.Client, endpoint, username string, i int) int {
	payload, _ := json.Marshal(map[string]string{
		"username": username,
		"message":  fmt.Sprintf("message %d", i),
	})

	res, err := client.Post(endpoint, "application/json", bytes.NewReader(payload))
	if err != nil {
		log.Printf("failed to send POST request to [%s]: %v", endpoint, err)
		return 0
	}
	defer res.Body.Close()
	_, _ = io.Copy(io.Discard, res.Body)

	return res.StatusCode
}
