// Command-line smoke test that exercises the full HTTP surface
// (register / login / post CRUD with image upload) and checks that
// concurrent uploads never produce colliding filenames.
package main

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"os"
	"sync"
	"time"

	"blogbox/config"
)

const baseURL = "http://127.0.0.1:8080"

var client = &http.Client{Timeout: 10 * time.Second}

// account 保存一次注册/登录得到的身份信息
type account struct {
	Email    string
	Username string
	Password string
	Token    string
	UserID   int
}

// createResult 汇总一次并发创建的结果，方便写入报告。
type createResult struct {
	Worker    int
	Status    int
	PostID    int
	Image     string
	Err       string
	Timestamp time.Time
}

// ======================= 基本 HTTP helper =======================

// doPostJSON is a thin helper that serializes a JSON body and sends a POST request.
func doPostJSON(url string, body any, token string) (int, []byte, error) {
	var buf []byte
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return 0, nil, err
		}
		buf = b
	}
	req, _ := http.NewRequest("POST", url, bytes.NewBuffer(buf))
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := client.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()
	data, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, data, nil
}

// doCreatePost sends the multipart creation request with one image part.
func doCreatePost(token, title, content, category, filename string, fileBytes []byte) (int, []byte, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	_ = w.WriteField("title", title)
	_ = w.WriteField("content", content)
	_ = w.WriteField("category", category)
	if filename != "" {
		part, err := w.CreateFormFile("image", filename)
		if err != nil {
			return 0, nil, err
		}
		if _, err := part.Write(fileBytes); err != nil {
			return 0, nil, err
		}
	}
	if err := w.Close(); err != nil {
		return 0, nil, err
	}

	req, _ := http.NewRequest("POST", baseURL+"/post/", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := client.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()
	data, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, data, nil
}

func doGet(url string) (int, []byte, error) {
	resp, err := client.Get(url)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()
	data, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, data, nil
}

// ======================= 注册 / 登录 helpers =======================

// setupAccount registers a fresh account and logs in.
func setupAccount() (*account, error) {
	suffix := time.Now().UnixNano() % 1000000000
	acc := &account{
		Username: fmt.Sprintf("smoke_%d", suffix),
		Email:    fmt.Sprintf("smoke_%d@example.com", suffix),
		Password: "SmokePwd123!",
	}

	status, data, err := doPostJSON(baseURL+"/user/register",
		map[string]string{"username": acc.Username, "email": acc.Email, "password": acc.Password}, "")
	if err != nil || status != http.StatusCreated {
		return nil, fmt.Errorf("register failed: status=%d err=%v body=%s", status, err, data)
	}

	status, data, err = doPostJSON(baseURL+"/user/login",
		map[string]string{"email": acc.Email, "password": acc.Password}, "")
	if err != nil || status != http.StatusOK {
		return nil, fmt.Errorf("login failed: status=%d err=%v body=%s", status, err, data)
	}
	var res map[string]any
	if err := json.Unmarshal(data, &res); err != nil {
		return nil, err
	}
	acc.Token, _ = res["token"].(string)
	if id, ok := res["userId"].(float64); ok {
		acc.UserID = int(id)
	}
	if acc.Token == "" {
		return nil, fmt.Errorf("login returned no token: %s", data)
	}
	return acc, nil
}

// ======================= 基础功能连通性测试 =======================

// endpointSmokeTests exercises the whole surface with positive and negative cases.
func endpointSmokeTests(acc *account) error {
	// Duplicate registration should be rejected (400).
	if status, _, err := doPostJSON(baseURL+"/user/register",
		map[string]string{"username": acc.Username, "email": acc.Email, "password": acc.Password}, ""); err != nil || status != http.StatusBadRequest {
		return fmt.Errorf("register (duplicate) expected 400, got %d err=%v", status, err)
	}

	// Unknown email -> 404, wrong password -> 401.
	if status, _, err := doPostJSON(baseURL+"/user/login",
		map[string]string{"email": "nobody@example.com", "password": acc.Password}, ""); err != nil || status != http.StatusNotFound {
		return fmt.Errorf("login (unknown email) expected 404, got %d err=%v", status, err)
	}
	if status, _, err := doPostJSON(baseURL+"/user/login",
		map[string]string{"email": acc.Email, "password": "wrong"}, ""); err != nil || status != http.StatusUnauthorized {
		return fmt.Errorf("login (bad password) expected 401, got %d err=%v", status, err)
	}

	// Create without file -> 400; without token -> 401.
	if status, _, err := doCreatePost(acc.Token, "T", "C", "Cat", "", nil); err != nil || status != http.StatusBadRequest {
		return fmt.Errorf("create (no file) expected 400, got %d err=%v", status, err)
	}
	if status, _, err := doCreatePost("", "T", "C", "Cat", "a.png", []byte("x")); err != nil || status != http.StatusUnauthorized {
		return fmt.Errorf("create (no token) expected 401, got %d err=%v", status, err)
	}

	// Full create -> fetch -> update -> delete cycle.
	status, data, err := doCreatePost(acc.Token, "T", "C", "Cat", "a.png", []byte("image-bytes"))
	if err != nil || status != http.StatusCreated {
		return fmt.Errorf("create expected 201, got %d err=%v body=%s", status, err, data)
	}
	var post map[string]any
	if err := json.Unmarshal(data, &post); err != nil {
		return err
	}
	postID := int(post["id"].(float64))
	image, _ := post["image"].(string)

	if status, _, err := doGet(fmt.Sprintf("%s/post/%d", baseURL, postID)); err != nil || status != http.StatusOK {
		return fmt.Errorf("get expected 200, got %d err=%v", status, err)
	}
	if status, body, err := doGet(baseURL + "/image/" + image); err != nil || status != http.StatusOK || !bytes.Equal(body, []byte("image-bytes")) {
		return fmt.Errorf("image fetch mismatch: status=%d err=%v", status, err)
	}

	req, _ := http.NewRequest("DELETE", fmt.Sprintf("%s/post/%d", baseURL, postID), nil)
	req.Header.Set("Authorization", "Bearer "+acc.Token)
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		return fmt.Errorf("delete expected 204, got %d", resp.StatusCode)
	}
	// Deleting again must be 404.
	resp, err = client.Do(req.Clone(req.Context()))
	if err != nil {
		return err
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		return fmt.Errorf("delete (repeat) expected 404, got %d", resp.StatusCode)
	}

	log.Println("endpoint smoke tests passed: register/login/post CRUD basic scenarios verified")
	return nil
}

// ======================= 并发创建与报告生成 =======================

// concurrentCreateTest uploads the same original filename from many workers
// and verifies every stored filename is unique.
func concurrentCreateTest(acc *account, workers int, outCSV string) error {
	results := make(chan createResult, workers)
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func(i int) {
			defer wg.Done()
			status, data, err := doCreatePost(acc.Token,
				fmt.Sprintf("concurrent-%d", i), "body", "stress", "same-name.png", []byte("payload"))
			r := createResult{Worker: i, Status: status, Timestamp: time.Now()}
			if err != nil {
				r.Err = err.Error()
			} else if status == http.StatusCreated {
				var post map[string]any
				if jerr := json.Unmarshal(data, &post); jerr == nil {
					r.PostID = int(post["id"].(float64))
					r.Image, _ = post["image"].(string)
				}
			}
			results <- r
		}(i)
	}
	wg.Wait()
	close(results)

	seen := make(map[string]int)
	all := make([]createResult, 0, workers)
	failures := 0
	for r := range results {
		all = append(all, r)
		if r.Status != http.StatusCreated {
			failures++
			continue
		}
		seen[r.Image]++
	}

	for image, count := range seen {
		if count > 1 {
			return fmt.Errorf("filename collision: %s stored %d times", image, count)
		}
	}
	if failures > 0 {
		return fmt.Errorf("%d of %d concurrent creates failed", failures, workers)
	}

	if outCSV != "" {
		if err := writeCSVReport(outCSV, all); err != nil {
			return err
		}
		log.Printf("report written to %s", outCSV)
	}
	log.Printf("concurrent create test passed: %d unique filenames from %d workers", len(seen), workers)
	return nil
}

func writeCSVReport(path string, results []createResult) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()
	_ = w.Write([]string{"worker", "status", "post_id", "image", "error", "timestamp"})
	for _, r := range results {
		_ = w.Write([]string{
			fmt.Sprintf("%d", r.Worker),
			fmt.Sprintf("%d", r.Status),
			fmt.Sprintf("%d", r.PostID),
			r.Image,
			r.Err,
			r.Timestamp.Format(time.RFC3339Nano),
		})
	}
	return w.Error()
}

func main() {
	// 初始化 config + Redis：清掉限流计数，避免登录限流影响测试
	config.InitConfig("../../")
	config.InitRedis()
	_ = config.RedisClient.FlushDB(config.RedisClient.Context()).Err()

	acc, err := setupAccount()
	if err != nil {
		log.Fatalf("setup failed: %v", err)
	}

	if err := endpointSmokeTests(acc); err != nil {
		log.Fatalf("smoke tests failed: %v", err)
	}
	if err := concurrentCreateTest(acc, 50, "create_report.csv"); err != nil {
		log.Fatalf("concurrent create test failed: %v", err)
	}
	log.Println("all smoke tests passed")
}
