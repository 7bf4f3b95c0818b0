// Package i18n translates user facing error messages
package i18n

import (
	"strings"
	"sync"

	"github.com/go-playground/locales/en_US"
	"github.com/go-playground/locales/zh"
	ut "github.com/go-playground/universal-translator"
	"github.com/weiwangfds/collegenotes/internal/logger"
)

// Supported languages
const (
	LangEnUS = "en-US"
	LangZhCN = "zh-CN"
)

var (
	instance *I18n
	once     sync.Once

	translations = map[string]map[string]string{
		LangEnUS: {
			"success":                "Success",
			"validation_failed":      "Validation failed",
			"invalid_id":             "Invalid note id",
			"note_not_found":         "Note not found",
			"file_required":          "No file uploaded",
			"file_too_large":         "File too large",
			"file_type_not_allowed":  "File type not allowed",
			"upload_failed":          "File upload failed",
			"storage_not_configured": "Object store not configured",
			"storage_list_failed":    "Failed to list stored files",
			"internal_server_error":  "Internal server error",
			"route_not_found":        "Route not found",
			"unknown_error":          "Unknown error",
		},
		LangZhCN: {
			"success":                "成功",
			"validation_failed":      "参数校验失败",
			"invalid_id":             "笔记ID无效",
			"note_not_found":         "笔记不存在",
			"file_required":          "未上传文件",
			"file_too_large":         "文件大小超限",
			"file_type_not_allowed":  "文件类型不允许",
			"upload_failed":          "文件上传失败",
			"storage_not_configured": "对象存储未配置",
			"storage_list_failed":    "获取存储文件列表失败",
			"internal_server_error":  "服务器内部错误",
			"route_not_found":        "路由不存在",
			"unknown_error":          "未知错误",
		},
	}
)

// I18n translator registry
type I18n struct {
	translators map[string]ut.Translator
	defaultLang string
}

// GetInstance returns the shared registry
func GetInstance() *I18n {
	once.Do(func() {
		instance = &I18n{
			translators: make(map[string]ut.Translator),
			defaultLang: LangEnUS,
		}
		instance.initTranslators()
	})
	return instance
}

func (i *I18n) initTranslators() {
	enUS := en_US.New()
	zhCN := zh.New()
	uni := ut.New(enUS, enUS, zhCN)

	langMappings := map[string]string{
		LangEnUS: "en_US",
		LangZhCN: "zh",
	}

	for ourLang, localeLang := range langMappings {
		trans, found := uni.GetTranslator(localeLang)
		if !found {
			logger.Errorf("translator not found for %s (locale %s)", ourLang, localeLang)
			continue
		}
		i.translators[ourLang] = trans
	}
}

// Translate returns the message for key in lang, falling back to the default language
// and finally to the key itself.
func (i *I18n) Translate(key, lang string) string {
	if _, ok := i.translators[lang]; !ok {
		lang = i.defaultLang
	}

	if translation, found := translations[lang][key]; found {
		return translation
	}
	if lang != i.defaultLang {
		if translation, found := translations[i.defaultLang][key]; found {
			return translation
		}
	}

	logger.Warnf("missing translation: %s (%s)", key, lang)
	return key
}

// Negotiate picks the first supported language of an Accept-Language header.
func (i *I18n) Negotiate(acceptLanguage string) string {
	for _, part := range strings.Split(acceptLanguage, ",") {
		tag := strings.TrimSpace(strings.SplitN(part, ";", 2)[0])
		if tag == "" {
			continue
		}
		for lang := range i.translators {
			if strings.EqualFold(lang, tag) {
				return lang
			}
		}
		// bare primary subtags such as "zh" or "en"
		primary := strings.ToLower(strings.SplitN(tag, "-", 2)[0])
		for lang := range i.translators {
			if strings.HasPrefix(strings.ToLower(lang), primary+"-") {
				return lang
			}
		}
	}
	return i.defaultLang
}

// SetDefaultLanguage sets the fallback language
func (i *I18n) SetDefaultLanguage(lang string) {
	i.defaultLang = lang
}

// GetDefaultLanguage returns the fallback language
func (i *I18n) GetDefaultLanguage() string {
	return i.defaultLang
}

// IsSupportedLanguage reports whether lang has a translator
func (i *I18n) IsSupportedLanguage(lang string) bool {
	_, exists := i.translators[lang]
	return exists
}
