package renderer

import (
	"net/http"

	"github.com/Rakhulsr/go-perfumery/app/utils/apperror"
	"github.com/unrolled/render"
	"go.uber.org/zap"
)

// New returns a JSON-only renderer; pretty printing is for development.
func New(pretty bool) *render.Render {
	return render.New(render.Options{
		IndentJSON:    pretty,
		UnEscapeHTML:  true,
		StreamingJSON: false,
		Charset:       "UTF-8",
	})
}

type ErrorBody struct {
	Error string `json:"error"`
}

// Error writes err as {"error": message}. Internal causes are logged, never
// sent.
func Error(rnd *render.Render, w http.ResponseWriter, logger *zap.Logger, err error) {
	appErr := apperror.From(err)
	if appErr.Kind == apperror.KindInternal && appErr.Err != nil {
		logger.Error("request failed", zap.String("message", appErr.Message), zap.Error(appErr.Err))
	}
	_ = rnd.JSON(w, appErr.Status(), ErrorBody{Error: appErr.Message})
}

func Message(rnd *render.Render, w http.ResponseWriter, status int, msg string) {
	_ = rnd.JSON(w, status, map[string]string{"message": msg})
}
