// Command seed populates a running instance with demo templates,
// workers and evaluations over the public HTTP API.
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/google/uuid"
)

const defaultTimeout = 10 * time.Second

type client struct {
	base string
	http *http.Client
}

func (c *client) postJSON(path string, body, out any) (int, error) {
	buf, err := json.Marshal(body)
	if err != nil {
		return 0, fmt.Errorf("marshal %s payload: %w", path, err)
	}
	resp, err := c.http.Post(c.base+path, "application/json", bytes.NewReader(buf))
	if err != nil {
		return 0, fmt.Errorf("post %s: %w", path, err)
	}
	defer resp.Body.Close()
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return resp.StatusCode, fmt.Errorf("decode %s response: %w", path, err)
		}
	}
	return resp.StatusCode, nil
}

func main() {
	var (
		baseURL = flag.String("url", "http://localhost:9090", "Base URL of the service")
		workers = flag.Int("workers", 6, "Number of demo workers per role")
		timeout = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
	)
	flag.Parse()

	c := &client{base: *baseURL, http: &http.Client{Timeout: *timeout}}

	templates := []map[string]any{
		{
			"name":          "Press Safety Check",
			"assigned_role": "press-operator",
			"window_hours":  2,
			"schedule_slots": []map[string]string{
				{"start_time": "08:00", "label": "morning round"},
				{"start_time": "16:00", "label": "afternoon round"},
			},
		},
		{
			"name":          "Weld Quality Audit",
			"assigned_role": "welder",
			"window_hours":  3,
			"schedule_slots": []map[string]string{
				{"start_time": "09:30", "label": "after warm-up"},
			},
		},
		{
			"name":          "5S Walkthrough",
			"assigned_role": "assembler",
		},
	}

	var templateIDs []string
	for _, tpl := range templates {
		var created struct {
			ID           string `json:"id"`
			AssignedRole string `json:"assigned_role"`
		}
		status, err := c.postJSON("/templates", tpl, &created)
		if err != nil {
			fail(err)
		}
		if status != http.StatusCreated {
			fail(fmt.Errorf("create template %q: unexpected status %d", tpl["name"], status))
		}
		templateIDs = append(templateIDs, created.ID)
		fmt.Printf("template %-20s %s\n", tpl["name"], created.ID)
	}

	roles := []string{"press-operator", "welder", "assembler"}
	workerIDs := map[string][]string{}
	for _, role := range roles {
		for i := 0; i < *workers; i++ {
			var created struct {
				ID string `json:"id"`
			}
			status, err := c.postJSON("/workers", map[string]any{
				"name": fmt.Sprintf("%s-%02d", role, i+1),
				"role": role,
			}, &created)
			if err != nil {
				fail(err)
			}
			if status != http.StatusCreated {
				fail(fmt.Errorf("create worker for role %s: unexpected status %d", role, status))
			}
			workerIDs[role] = append(workerIDs[role], created.ID)
		}
		fmt.Printf("role %-16s %d workers\n", role, *workers)
	}

	// Submit one evaluation per template against its first role member.
	// Whether each lands depends on the wall clock and the template's
	// schedule; rejections are reported, not fatal.
	for i, tplID := range templateIDs {
		role := roles[i]
		status, err := c.postJSON("/evaluations", map[string]any{
			"submission_id": uuid.NewString(),
			"template_id":   tplID,
			"worker_id":     workerIDs[role][0],
			"total_score":   41.5,
			"max_score":     50,
		}, nil)
		if err != nil {
			fail(err)
		}
		fmt.Printf("evaluation via template %s -> HTTP %d\n", tplID, status)
	}
}

func fail(err error) {
	os.Stderr.WriteString("seed failed: " + err.Error() + "\n")
	os.Exit(1)
}
