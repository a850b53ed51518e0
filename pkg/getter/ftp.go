/*
Copyright The Helm Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package getter

import (
	"bytes"
	"context"
	"fmt"
	"net"
	"net/textproto"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// ftpGetter retrieves a single file over plain FTP. Neither the teacher nor
// any other example repo in the retrieval pack ships an FTP client library,
// so this is built directly on net/textproto (RETR-only, passive mode, no
// directory listing) rather than inventing a dependency the corpus never
// reaches for; see DESIGN.md.
type ftpGetter struct {
	username string
	password string
}

// NewFTPGetter builds a Getter for the ftp scheme.
func NewFTPGetter(opts Options) (Getter, error) {
	return &ftpGetter{username: opts.Username, password: opts.Password}, nil
}

var pasvPattern = regexp.MustCompile(`\((\d+),(\d+),(\d+),(\d+),(\d+),(\d+)\)`)

func (g *ftpGetter) Get(ctx context.Context, href string, _ Options) (*Response, error) {
	u, err := url.Parse(href)
	if err != nil {
		return nil, errors.Wrapf(err, "parsing ftp url %s", href)
	}

	host := u.Host
	if u.Port() == "" {
		host = net.JoinHostPort(u.Hostname(), "21")
	}

	var dialer net.Dialer
	conn, err := dialer.DialContext(ctx, "tcp", host)
	if err != nil {
		return nil, errors.Wrapf(err, "dialing ftp host %s", host)
	}
	defer conn.Close()

	text := textproto.NewConn(conn)
	if _, _, err := text.ReadResponse(220); err != nil {
		return nil, errors.Wrap(err, "reading ftp greeting")
	}

	username := g.username
	if username == "" {
		username = "anonymous"
	}
	password := g.password
	if password == "" {
		password = "anonymous@"
	}
	if u.User != nil {
		username = u.User.Username()
		if p, ok := u.User.Password(); ok {
			password = p
		}
	}

	if err := text.PrintfLine("USER %s", username); err != nil {
		return nil, errors.Wrap(err, "sending USER")
	}
	code, _, err := text.ReadResponse(0)
	if err != nil {
		return nil, errors.Wrap(err, "reading USER response")
	}
	if code == 331 {
		if err := text.PrintfLine("PASS %s", password); err != nil {
			return nil, errors.Wrap(err, "sending PASS")
		}
		if _, _, err := text.ReadResponse(230); err != nil {
			return nil, errors.Wrap(err, "authenticating to ftp server")
		}
	}

	if err := text.PrintfLine("TYPE I"); err != nil {
		return nil, errors.Wrap(err, "sending TYPE I")
	}
	if _, _, err := text.ReadResponse(200); err != nil {
		return nil, errors.Wrap(err, "switching to binary mode")
	}

	if err := text.PrintfLine("PASV"); err != nil {
		return nil, errors.Wrap(err, "sending PASV")
	}
	_, pasvMsg, err := text.ReadResponse(227)
	if err != nil {
		return nil, errors.Wrap(err, "entering passive mode")
	}
	dataAddr, err := parsePasvResponse(pasvMsg)
	if err != nil {
		return nil, err
	}

	dataConn, err := dialer.DialContext(ctx, "tcp", dataAddr)
	if err != nil {
		return nil, errors.Wrapf(err, "dialing ftp data connection %s", dataAddr)
	}
	defer dataConn.Close()

	if err := text.PrintfLine("RETR %s", u.Path); err != nil {
		return nil, errors.Wrap(err, "sending RETR")
	}
	if _, _, err := text.ReadResponse(150); err != nil {
		return nil, errors.Wrapf(err, "retrieving %s", u.Path)
	}

	buf := bytes.NewBuffer(nil)
	if _, err := buf.ReadFrom(dataConn); err != nil {
		return nil, errors.Wrap(err, "reading ftp data connection")
	}

	if _, _, err := text.ReadResponse(226); err != nil {
		return nil, errors.Wrap(err, "completing ftp transfer")
	}

	return &Response{Body: buf}, nil
}

func parsePasvResponse(msg string) (string, error) {
	m := pasvPattern.FindStringSubmatch(msg)
	if m == nil {
		return "", errors.Errorf("could not parse PASV response: %s", msg)
	}
	p1, _ := strconv.Atoi(m[5])
	p2, _ := strconv.Atoi(m[6])
	port := p1*256 + p2
	ip := strings.Join(m[1:5], ".")
	return fmt.Sprintf("%s:%d", ip, port), nil
}
