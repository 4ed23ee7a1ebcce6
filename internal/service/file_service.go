package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"aippt-backend/internal/models"
	"aippt-backend/internal/repository"

	"github.com/google/uuid"
)

// FileService 本地文件存储。对上层表现为 upload(file) -> {id, url}，
// 存储细节（对象键、目录布局）不外露。
type FileService struct {
	fileRepo *repository.FileRepository
	dir      string
	baseURL  string
}

func NewFileService(fileRepo *repository.FileRepository, dir, baseURL string) *FileService {
	return &FileService{
		fileRepo: fileRepo,
		dir:      dir,
		baseURL:  strings.TrimRight(baseURL, "/"),
	}
}

// Upload 保存用户上传的文件并记录
func (s *FileService) Upload(userID uint, header *multipart.FileHeader, kind models.FileKind) (*models.File, error) {
	if header == nil {
		return nil, errors.New("未提供文件")
	}

	src, err := header.Open()
	if err != nil {
		return nil, err
	}
	defer src.Close()

	objectKey := uuid.NewString() + strings.ToLower(filepath.Ext(header.Filename))
	size, err := s.writeObject(objectKey, src)
	if err != nil {
		return nil, err
	}

	file := &models.File{
		UserID:      userID,
		Name:        header.Filename,
		ObjectKey:   objectKey,
		URL:         s.baseURL + "/" + objectKey,
		Size:        size,
		ContentType: header.Header.Get("Content-Type"),
		Kind:        kind,
	}
	if err := s.fileRepo.Create(file); err != nil {
		return nil, err
	}
	return file, nil
}

// MirrorRemote 把引擎侧结果文件下载到本地存储，返回本地访问URL。
// 调用方负责失败时的回退策略。
func (s *FileService) MirrorRemote(ctx context.Context, userID uint, url, filename string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}
	client := &http.Client{Timeout: 60 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("下载结果文件失败: HTTP %d", resp.StatusCode)
	}

	objectKey := uuid.NewString() + strings.ToLower(filepath.Ext(filename))
	size, err := s.writeObject(objectKey, resp.Body)
	if err != nil {
		return "", err
	}

	file := &models.File{
		UserID:      userID,
		Name:        filename,
		ObjectKey:   objectKey,
		URL:         s.baseURL + "/" + objectKey,
		Size:        size,
		ContentType: resp.Header.Get("Content-Type"),
		Kind:        models.FileKindResult,
	}
	if err := s.fileRepo.Create(file); err != nil {
		return "", err
	}
	return file.URL, nil
}

// GetFile 根据ID获取文件记录
func (s *FileService) GetFile(id uint) (*models.File, error) {
	return s.fileRepo.GetByID(id)
}

// ReadDocumentText 读取源文档的文本内容（文本提取由上传侧完成，
// 这里存储的即为纯文本）
func (s *FileService) ReadDocumentText(id uint) (string, error) {
	file, err := s.fileRepo.GetByID(id)
	if err != nil {
		return "", err
	}
	data, err := os.ReadFile(filepath.Join(s.dir, file.ObjectKey))
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func (s *FileService) writeObject(objectKey string, src io.Reader) (int64, error) {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return 0, err
	}
	dst, err := os.Create(filepath.Join(s.dir, objectKey))
	if err != nil {
		return 0, err
	}
	defer dst.Close()

	return io.Copy(dst, src)
}
