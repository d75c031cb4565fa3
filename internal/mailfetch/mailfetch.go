package mailfetch

import (
	"bytes"
	"crypto/tls"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/emersion/go-imap"
	imapclient "github.com/emersion/go-imap/client"
	"github.com/jhillyerd/enmime"
	"go.uber.org/zap"

	"github.com/willi202202/rechnungen-sort/internal/config"
)

// Fetcher pulls unseen mail from one IMAP mailbox and drops every PDF
// attachment into the inbox folder, where the next scan run picks it up.
type Fetcher struct {
	host     string
	port     int
	secure   bool
	user     string
	password string
	mailbox  string
	markSeen bool
	fetchMax int
	inboxDir string
	log      *zap.SugaredLogger
}

func NewFetcher(cfg config.Config, log *zap.Logger) (*Fetcher, error) {
	if err := cfg.Require("IMAP_HOST", cfg.IMAPHost); err != nil {
		return nil, err
	}
	if err := cfg.Require("IMAP_USER", cfg.IMAPUser); err != nil {
		return nil, err
	}
	if err := cfg.Require("IMAP_PASSWORD", cfg.IMAPPassword); err != nil {
		return nil, err
	}

	return &Fetcher{
		host:     cfg.IMAPHost,
		port:     cfg.IMAPPort,
		secure:   cfg.IMAPSecure,
		user:     cfg.IMAPUser,
		password: cfg.IMAPPassword,
		mailbox:  cfg.IMAPMailbox,
		markSeen: cfg.IMAPMarkSeen,
		fetchMax: cfg.IMAPFetchMax,
		inboxDir: cfg.BaseDir,
		log:      log.Sugar(),
	}, nil
}

type FetchResult struct {
	Messages int
	Saved    int
}

func (f *Fetcher) Fetch() (FetchResult, error) {
	addr := fmt.Sprintf("%s:%d", f.host, f.port)
	var client *imapclient.Client
	var err error
	if f.secure {
		client, err = imapclient.DialTLS(addr, &tls.Config{ServerName: f.host})
	} else {
		client, err = imapclient.Dial(addr)
	}
	if err != nil {
		return FetchResult{}, err
	}
	defer client.Logout()

	if err := client.Login(f.user, f.password); err != nil {
		return FetchResult{}, err
	}

	if _, err := client.Select(f.mailbox, false); err != nil {
		return FetchResult{}, err
	}

	criteria := imap.NewSearchCriteria()
	criteria.WithoutFlags = []string{imap.SeenFlag}
	ids, err := client.Search(criteria)
	if err != nil {
		return FetchResult{}, err
	}
	if len(ids) == 0 {
		return FetchResult{}, nil
	}
	if len(ids) > f.fetchMax {
		ids = ids[len(ids)-f.fetchMax:]
	}

	seqset := new(imap.SeqSet)
	seqset.AddNum(ids...)

	section := &imap.BodySectionName{}
	items := []imap.FetchItem{imap.FetchEnvelope, imap.FetchUid, section.FetchItem()}
	messages := make(chan *imap.Message, len(ids))
	fetchDone := make(chan error, 1)
	go func() { fetchDone <- client.Fetch(seqset, items, messages) }()

	result := FetchResult{}
	for msg := range messages {
		if msg == nil {
			continue
		}
		body := msg.GetBody(section)
		if body == nil {
			continue
		}
		raw, err := io.ReadAll(body)
		if err != nil {
			return result, err
		}
		result.Messages++

		subject := ""
		if msg.Envelope != nil {
			subject = msg.Envelope.Subject
		}

		saved, err := f.savePDFAttachments(raw, msg.Uid)
		if err != nil {
			f.log.Warnw("attachment extraction failed", "subject", subject, "error", err)
			continue
		}
		result.Saved += saved
		if saved > 0 {
			f.log.Infow("saved attachments", "subject", subject, "count", saved)
		}

		if f.markSeen {
			single := new(imap.SeqSet)
			single.AddNum(msg.SeqNum)
			item := imap.FormatFlagsOp(imap.AddFlags, true)
			flags := []interface{}{imap.SeenFlag}
			if err := client.Store(single, item, flags, nil); err != nil {
				return result, err
			}
		}
	}

	if err := <-fetchDone; err != nil {
		return result, err
	}
	return result, nil
}

func (f *Fetcher) savePDFAttachments(raw []byte, uid uint32) (int, error) {
	env, err := enmime.ReadEnvelope(bytes.NewReader(raw))
	if err != nil {
		return 0, err
	}

	if err := os.MkdirAll(f.inboxDir, 0o755); err != nil {
		return 0, err
	}

	saved := 0
	parts := append([]*enmime.Part{}, env.Attachments...)
	parts = append(parts, env.Inlines...)
	for _, part := range parts {
		if !isPDF(part) {
			continue
		}
		name := part.FileName
		if name == "" {
			name = fmt.Sprintf("mail-%d-%d.pdf", uid, saved+1)
		}
		target := uniquePath(filepath.Join(f.inboxDir, filepath.Base(name)))
		if err := os.WriteFile(target, part.Content, 0o644); err != nil {
			return saved, err
		}
		saved++
	}
	return saved, nil
}

func isPDF(part *enmime.Part) bool {
	if strings.EqualFold(part.ContentType, "application/pdf") {
		return true
	}
	return strings.EqualFold(filepath.Ext(part.FileName), ".pdf")
}

// uniquePath avoids clobbering an earlier attachment with the same name.
func uniquePath(path string) string {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return path
	}
	ext := filepath.Ext(path)
	stem := strings.TrimSuffix(path, ext)
	for i := 1; ; i++ {
		candidate := fmt.Sprintf("%s_%d%s", stem, i, ext)
		if _, err := os.Stat(candidate); os.IsNotExist(err) {
			return candidate
		}
	}
}
