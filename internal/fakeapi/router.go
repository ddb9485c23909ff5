// Package fakeapi serves the tuition API from an in-memory catalog. It backs
// demo mode and the tests of every package that consumes the API.
package fakeapi

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"

	"github.com/majorhelp/tuitioncalc/internal/api"
)

// NewRouter registers the four tuition endpoints over catalog.
func NewRouter(catalog Catalog, logger log.Logger) *gin.Engine {
	if logger == nil {
		logger = log.NewNopLogger()
	}
	h := &handlers{catalog: catalog}

	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(logger))

	r.GET(api.PathUniversitySearch, h.universitySearch)
	r.GET(api.PathMajors, h.majors)
	r.GET(api.PathAid, h.aid)
	r.GET(api.PathCalculate, h.calculate)
	return r
}

func requestLogger(logger log.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		_ = level.Debug(logger).Log(
			"msg", "fake api request",
			"path", c.Request.URL.Path,
			"query", c.Request.URL.RawQuery,
			"status", c.Writer.Status(),
			"took", time.Since(start),
		)
	}
}

type handlers struct {
	catalog Catalog
}

func (h *handlers) universitySearch(c *gin.Context) {
	query := strings.TrimSpace(c.Query("query"))
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"universities": []gin.H{}})
		return
	}

	prefix := strings.ToLower(query)
	var matches []University
	for _, u := range h.catalog.Universities {
		if strings.HasPrefix(strings.ToLower(u.Name), prefix) {
			matches = append(matches, u)
		}
	}
	if len(matches) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"universities": []gin.H{}})
		return
	}
	sort.SliceStable(matches, func(i, j int) bool { return matches[i].Name < matches[j].Name })

	out := make([]gin.H, 0, len(matches))
	for _, u := range matches {
		out = append(out, gin.H{"name": u.Name, "location": u.Location})
	}
	c.JSON(http.StatusOK, gin.H{"universities": out})
}

func (h *handlers) aid(c *gin.Context) {
	name := c.Query("university")
	if name == "" {
		c.String(http.StatusBadRequest, "Error - No university provided.")
		return
	}
	var uni *University
	for i := range h.catalog.Universities {
		if strings.EqualFold(h.catalog.Universities[i].Name, name) {
			uni = &h.catalog.Universities[i]
			break
		}
	}
	if uni == nil {
		c.String(http.StatusNotFound, "Error - No university found.")
		return
	}

	out := make([]gin.H, 0, len(uni.Aids))
	for _, a := range uni.Aids {
		out = append(out, gin.H{"name": a.Name, "location": a.Location, "amount": a.Amount})
	}
	c.JSON(http.StatusOK, gin.H{"aids": out})
}

func (h *handlers) majors(c *gin.Context) {
	uniName := c.Query("university")
	department := c.Query("department")
	if uniName == "" {
		c.String(http.StatusBadRequest, "Error - No university provided.")
		return
	}
	if department == "" {
		c.String(http.StatusBadRequest, "Error - No department provided.")
		return
	}
	uni := h.findUniversity(uniName)
	if uni == nil {
		c.String(http.StatusNotFound, "Error - University not found")
		return
	}

	out := []gin.H{}
	for _, m := range uni.Majors {
		if m.Department == department {
			out = append(out, gin.H{"name": m.Name})
		}
	}
	c.JSON(http.StatusOK, gin.H{"majors": out})
}

func (h *handlers) calculate(c *gin.Context) {
	uniName := c.Query("university")
	majorName := c.Query("major")
	outstate := c.Query("outstate")
	aidName, aidGiven := c.GetQuery("aid")

	switch {
	case uniName == "":
		c.String(http.StatusBadRequest, "Error - No university provided.")
		return
	case majorName == "":
		c.String(http.StatusBadRequest, "Error - No major provided.")
		return
	case outstate == "":
		c.String(http.StatusBadRequest, "Error - No outstate provided.")
		return
	}
	outOfState := outstate == "true"

	uni := h.findUniversity(uniName)
	if uni == nil {
		c.String(http.StatusNotFound, "Error - University not found")
		return
	}
	major := findMajor(uni, majorName)
	if major == nil {
		c.String(http.StatusNotFound, "Error - Major not found")
		return
	}

	amount := 0
	var aidObj *Aid
	noAid := !aidGiven || isNoAid(aidName)
	if !noAid {
		if n, err := strconv.Atoi(aidName); err == nil {
			amount = n
		} else {
			aidObj = h.findAid(uni, aidName)
			if aidObj == nil {
				c.String(http.StatusNotFound, "Error - Financial Aid not found.")
				return
			}
			amount = aidObj.Amount
		}
	}

	uniMin, uniMax := uni.InStateMin, uni.InStateMax
	majMin, majMax := major.InStateMin, major.InStateMax
	if outOfState {
		uniMin, uniMax = uni.OutOfStateMin, uni.OutOfStateMax
		majMin, majMax = major.OutOfStateMin, major.OutOfStateMax
	}
	fees := uni.Fees + major.Fees
	minTui := uniMin + majMin + fees - amount
	maxTui := uniMax + majMax + fees - amount

	aidOut := gin.H{}
	switch {
	case noAid:
	case aidObj != nil:
		aidOut = gin.H{"name": aidObj.Name, "amount": aidObj.Amount}
	default:
		aidOut = gin.H{"name": fmt.Sprintf("Custom Aid ($%d)", amount), "amount": amount}
	}

	c.JSON(http.StatusOK, gin.H{
		"minTui": minTui,
		"maxTui": maxTui,
		"uni":    gin.H{"name": uni.Name, "baseMinTui": uniMin, "baseMaxTui": uniMax, "fees": uni.Fees},
		"major":  gin.H{"name": major.Name, "baseMinTui": majMin, "baseMaxTui": majMax, "fees": major.Fees},
		"aid":    aidOut,
	})
}

func isNoAid(name string) bool {
	switch name {
	case "", "None", "null":
		return true
	}
	return false
}

func (h *handlers) findUniversity(name string) *University {
	needle := strings.ToLower(name)
	for i := range h.catalog.Universities {
		if strings.Contains(strings.ToLower(h.catalog.Universities[i].Name), needle) {
			return &h.catalog.Universities[i]
		}
	}
	return nil
}

func findMajor(uni *University, name string) *Major {
	needle := strings.ToLower(name)
	for i := range uni.Majors {
		if strings.Contains(strings.ToLower(uni.Majors[i].Name), needle) {
			return &uni.Majors[i]
		}
	}
	return nil
}

func (h *handlers) findAid(uni *University, name string) *Aid {
	for i := range uni.Aids {
		if uni.Aids[i].Name == name {
			return &uni.Aids[i]
		}
	}
	for i := range h.catalog.Universities {
		for j := range h.catalog.Universities[i].Aids {
			if h.catalog.Universities[i].Aids[j].Name == name {
				return &h.catalog.Universities[i].Aids[j]
			}
		}
	}
	return nil
}

// Server is a fake API listening on a loopback port.
type Server struct {
	URL string
	srv *http.Server
}

// Start serves catalog on 127.0.0.1 with an OS-assigned port.
func Start(catalog Catalog, logger log.Logger) (*Server, error) {
	if logger == nil {
		logger = log.NewNopLogger()
	}
	gin.SetMode(gin.ReleaseMode)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return nil, fmt.Errorf("fakeapi listen: %w", err)
	}
	srv := &http.Server{
		Handler:           NewRouter(catalog, logger),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			_ = level.Error(logger).Log("msg", "fake api stopped", "err", err)
		}
	}()
	_ = level.Info(logger).Log("msg", "fake api listening", "addr", ln.Addr().String())
	return &Server{URL: "http://" + ln.Addr().String(), srv: srv}, nil
}

// Close shuts the server down.
func (s *Server) Close(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
