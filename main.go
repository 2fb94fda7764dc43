package main

import (
	"database/sql"
	"html/template"
	"log"
	"net/http"
	"strconv"

	"github.com/dustin/go-humanize"
	_ "github.com/joho/godotenv/autoload"

	"github.com/gin-gonic/gin"

	"github.com/portfolio-site/portfolio/content"
	"github.com/portfolio-site/portfolio/typing"
)

// site bundles what the handlers need
type site struct {
	cfg       Config
	portfolio *content.Portfolio
	db        *sql.DB
	mailer    Mailer
	clock     typing.Scheduler
	jitter    typing.Jitter // nil uses the global source
	admin     *adminAuth
}

var templateFuncs = template.FuncMap{
	"ago":   humanize.Time,
	"comma": humanize.Comma,
}

func main() {
	cfg := loadConfig()

	portfolio, err := loadPortfolio(cfg.ContentPath)
	if err != nil {
		log.Fatal("Failed to load portfolio content:", err)
	}

	db, err := openStore(cfg.DBPath)
	if err != nil {
		log.Fatal("Failed to open database:", err)
	}
	defer db.Close()

	s := &site{
		cfg:       cfg,
		portfolio: portfolio,
		db:        db,
		mailer:    newSMTPMailer(cfg),
		clock:     typing.Clock{},
		admin:     newAdminAuth(),
	}

	// Clean up old visitor data for privacy compliance (run in background)
	go s.cleanupOldVisitorData()

	r := gin.Default()
	s.setupRoutes(r)

	log.Printf("Serving %s on :%s", portfolio.Profile.PageTitle(), cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal(err)
	}
}

func loadPortfolio(path string) (*content.Portfolio, error) {
	if path == "" {
		return content.Default()
	}
	return content.Load(path)
}

func (s *site) setupRoutes(r *gin.Engine) {
	r.SetFuncMap(templateFuncs)
	r.LoadHTMLGlob("templates/*")

	r.Static("/images", "./images")
	r.Static("/static", "./static")

	r.Use(s.visitorTrackingMiddleware())

	// Home page route
	r.GET("/", func(c *gin.Context) {
		c.Header("Accept-CH", themeHintHeader)
		c.HTML(http.StatusOK, "index.html", gin.H{
			"title":           s.portfolio.Profile.PageTitle(),
			"theme":           resolveTheme(c),
			"p":               s.portfolio,
			"experienceTabs":  content.ExperienceTabs,
			"roles":           s.portfolio.Experience.Research,
			"publicationTabs": content.PublicationTabs,
			"publications":    content.ByCategory(s.portfolio.Publications, content.Journal),
		})
	})

	// HTMX tab: experience list
	r.GET("/experience/:tab", func(c *gin.Context) {
		roles, ok := s.portfolio.Experience.Tab(c.Param("tab"))
		if !ok {
			c.String(http.StatusNotFound, "unknown experience tab")
			return
		}
		c.HTML(http.StatusOK, "experience.html", gin.H{
			"roles": roles,
		})
	})

	// HTMX tab: publications list
	r.GET("/publications/:category", func(c *gin.Context) {
		category := c.Param("category")
		if !content.IsTab(category) {
			c.String(http.StatusNotFound, "unknown publication category")
			return
		}
		c.HTML(http.StatusOK, "publications.html", gin.H{
			"publications": content.ByCategory(s.portfolio.Publications, category),
		})
	})

	// HTMX modal body for one education entry
	r.GET("/education/:index", func(c *gin.Context) {
		i, err := strconv.Atoi(c.Param("index"))
		if err != nil || i < 0 || i >= len(s.portfolio.Education) {
			c.String(http.StatusNotFound, "unknown education entry")
			return
		}
		c.HTML(http.StatusOK, "education-detail.html", gin.H{
			"edu": s.portfolio.Education[i],
		})
	})

	r.POST("/theme", toggleTheme)

	r.GET("/typing/subtitles", s.streamSubtitles)
	r.GET("/typing/greeting", s.streamGreeting)

	// HTMX Contact form endpoint - returns just the form HTML
	r.GET("/contact-form", func(c *gin.Context) {
		c.HTML(http.StatusOK, "contact.html", gin.H{
			"title": "Contact Me",
		})
	})
	r.POST("/contact", s.handleContact)

	s.setupAdminRoutes(r)
}
