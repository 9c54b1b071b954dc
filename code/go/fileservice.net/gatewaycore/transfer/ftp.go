package transfer

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net"
	"net/textproto"
	"path"
	"strconv"

	zerrors "github.com/0chain/errors"
	"github.com/DTSwithAI/file-service/code/go/fileservice.net/core/common"
	"github.com/DTSwithAI/file-service/code/go/fileservice.net/core/logging"
	"github.com/DTSwithAI/file-service/code/go/fileservice.net/gatewaycore/config"
	"github.com/jlaffaye/ftp"
	"go.uber.org/zap"
)

// FTPDialer opens authenticated, binary-mode FTP sessions. Connects are
// retried a bounded number of times; store/retrieve never are, since a
// repeated store is not idempotent on this backend.
type FTPDialer struct {
	cfg config.FTPConfig
}

func NewFTPDialer(cfg config.FTPConfig) *FTPDialer {
	return &FTPDialer{cfg: cfg}
}

func (d *FTPDialer) Dial(ctx context.Context) (Session, error) {
	addr := net.JoinHostPort(d.cfg.Host, strconv.Itoa(d.cfg.Port))

	attempts := d.cfg.DialRetries
	if attempts < 1 {
		attempts = 1
	}

	var conn *ftp.ServerConn
	var err error
	for i := 0; i < attempts; i++ {
		conn, err = ftp.Dial(addr,
			ftp.DialWithContext(ctx),
			ftp.DialWithTimeout(d.cfg.Timeout),
		)
		if err == nil {
			break
		}
		if ctx.Err() != nil {
			break
		}
	}
	if err != nil {
		logging.Logger.Error("ftp dial failed", zap.String("addr", addr), zap.Error(err))
		return nil, common.NewErrorf(CodeConnection, "backend %s unreachable", addr)
	}

	if err := conn.Login(d.cfg.Username, d.cfg.Password); err != nil {
		conn.Quit() //nolint:errcheck
		logging.Logger.Error("ftp login rejected", zap.String("addr", addr), zap.Error(err))
		return nil, common.NewError(CodeAuth, "backend rejected credentials")
	}

	if err := conn.Type(ftp.TransferTypeBinary); err != nil {
		conn.Quit() //nolint:errcheck
		return nil, common.NewErrorf(CodeConnection, "setting binary mode: %v", err)
	}

	return &ftpSession{conn: conn}, nil
}

type ftpSession struct {
	conn *ftp.ServerConn
}

func (s *ftpSession) Store(directory, filename string, data []byte) (bool, error) {
	err := s.conn.Stor(path.Join(directory, filename), bytes.NewReader(data))
	if err == nil {
		return true, nil
	}
	if isServerRejection(err) {
		// declined write (quota, permission): a failure outcome, not a fault
		logging.Logger.Warn("backend declined store",
			zap.String("directory", directory), zap.String("filename", filename), zap.Error(err))
		return false, nil
	}
	return false, common.NewErrorf(CodeTransfer, "storing %s: %v",
		filename, zerrors.Wrap(err, "stor"))
}

func (s *ftpSession) Retrieve(directory, filename string) ([]byte, error) {
	resp, err := s.conn.Retr(path.Join(directory, filename))
	if err != nil {
		if isNotFoundReply(err) {
			return nil, common.NewErrorf(CodeNotFound, "%s not on backend", filename)
		}
		return nil, common.NewErrorf(CodeTransfer, "retrieving %s: %v",
			filename, zerrors.Wrap(err, "retr"))
	}
	defer resp.Close()

	data, err := io.ReadAll(resp)
	if err != nil {
		// the transfer broke mid-stream; whatever was buffered is not the file
		return nil, common.NewErrorf(CodeTransfer, "retrieving %s: %v",
			filename, zerrors.Wrap(err, "read"))
	}
	return data, nil
}

func (s *ftpSession) Delete(directory, filename string) error {
	if err := s.conn.Delete(path.Join(directory, filename)); err != nil {
		if isNotFoundReply(err) {
			return common.NewErrorf(CodeNotFound, "%s not on backend", filename)
		}
		return common.NewErrorf(CodeTransfer, "deleting %s: %v", filename, err)
	}
	return nil
}

func (s *ftpSession) ListNames(directory string) ([]string, error) {
	names, err := s.conn.NameList(directory)
	if err != nil {
		return nil, zerrors.Wrap(err, "nlst")
	}
	return names, nil
}

func (s *ftpSession) MakeDir(p string) error {
	return s.conn.MakeDir(p)
}

func (s *ftpSession) ChangeDir(p string) error {
	return s.conn.ChangeDir(p)
}

func (s *ftpSession) Close() error {
	return s.conn.Quit()
}

// isNotFoundReply reports a 550 "file unavailable" server reply.
func isNotFoundReply(err error) bool {
	var perr *textproto.Error
	if errors.As(err, &perr) {
		return perr.Code == ftp.StatusFileUnavailable
	}
	return false
}

// isServerRejection reports a permanent-negative server reply (5xx): the
// backend understood the command and refused it.
func isServerRejection(err error) bool {
	var perr *textproto.Error
	if errors.As(err, &perr) {
		return perr.Code >= 500 && perr.Code < 600
	}
	return false
}
