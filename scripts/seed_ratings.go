// seed_ratings.go: standalone script that replays a ratings sheet into a
// Compass session over the HTTP API.
//
// The sheet holds one rating per line, "<topic-id> <current> [target]".
// Blank lines and lines starting with # are skipped.
//
// Usage:
//
//	go run scripts/seed_ratings.go -sheet ratings.txt -assessment ai-readiness -participant ana
package main

import (
	"bufio"
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"
)

type rating struct {
	TopicID string `json:"-"`
	Current string `json:"current"`
	Target  string `json:"target,omitempty"`
}

func main() {
	sheetPath := flag.String("sheet", "ratings.txt", "path to ratings sheet")
	apiURL := flag.String("api", "http://localhost:8700", "Compass API base URL")
	assessmentID := flag.String("assessment", "ai-readiness", "assessment id")
	participant := flag.String("participant", "seed", "X-Participant-ID header value")
	organization := flag.String("org", "", "organization name")
	dryRun := flag.Bool("dry-run", false, "print ratings without posting")
	flag.Parse()

	f, err := os.Open(*sheetPath)
	if err != nil {
		log.Fatalf("open sheet: %v", err)
	}
	defer f.Close()

	var ratings []rating
	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 2 {
			log.Printf("skip line %d: want \"<topic-id> <current> [target]\"", lineNo)
			continue
		}
		r := rating{TopicID: fields[0], Current: fields[1]}
		if len(fields) > 2 {
			r.Target = fields[2]
		}
		ratings = append(ratings, r)
	}
	if err := scanner.Err(); err != nil {
		log.Fatalf("scan sheet: %v", err)
	}

	log.Printf("parsed %d ratings from %s", len(ratings), *sheetPath)

	if *dryRun {
		for i, r := range ratings {
			target := r.Target
			if target == "" {
				target = r.Current
			}
			fmt.Printf("[%d] %s current=%s target=%s\n", i+1, r.TopicID, r.Current, target)
		}
		return
	}

	client := &http.Client{}
	sessionID, err := createSession(client, *apiURL, *assessmentID, *participant, *organization)
	if err != nil {
		log.Fatalf("create session: %v", err)
	}
	log.Printf("session %s", sessionID)

	saved, skipped := 0, 0
	for _, r := range ratings {
		// ratings are sent as strings; the server parses and snaps them
		body, _ := json.Marshal(r)
		url := fmt.Sprintf("%s/api/v1/sessions/%s/responses/%s", *apiURL, sessionID, r.TopicID)
		req, err := http.NewRequest("PUT", url, bytes.NewReader(body))
		if err != nil {
			log.Printf("skip %q: %v", r.TopicID, err)
			skipped++
			continue
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-Participant-ID", *participant)

		resp, err := client.Do(req)
		if err != nil {
			log.Printf("skip %q: %v", r.TopicID, err)
			skipped++
			continue
		}
		resp.Body.Close()

		if resp.StatusCode == http.StatusOK {
			saved++
		} else {
			log.Printf("skip %q: status %d", r.TopicID, resp.StatusCode)
			skipped++
		}
	}

	log.Printf("done: %d saved, %d skipped; report at %s/api/v1/sessions/%s/report", saved, skipped, *apiURL, sessionID)
}

func createSession(client *http.Client, apiURL, assessmentID, participant, organization string) (string, error) {
	body, _ := json.Marshal(map[string]string{
		"assessment_id": assessmentID,
		"participant":   participant,
		"organization":  organization,
	})
	req, err := http.NewRequest("POST", apiURL+"/api/v1/sessions", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Participant-ID", participant)

	resp, err := client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		return "", fmt.Errorf("status %d", resp.StatusCode)
	}

	var sess struct {
		SessionID string `json:"session_id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&sess); err != nil {
		return "", err
	}
	return sess.SessionID, nil
}
