package selectable

import (
	"bytes"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type SelectController struct {
	Registry *Registry
}

func (sc *SelectController) ListMethods(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "Methods fetched successfully",
		"methods": sc.Registry.Methods(),
	})
}

func (sc *SelectController) invoke(c *gin.Context) (string, bool) {
	name := strings.TrimSpace(c.Param("name"))
	if name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "method name is required"})
		return "", false
	}
	if _, ok := sc.Registry.Lookup(name); !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("unknown method %q", name)})
		return "", false
	}
	return name, true
}

func (sc *SelectController) Select(c *gin.Context) {
	name, ok := sc.invoke(c)
	if !ok {
		return
	}
	rows, err := sc.Registry.Invoke(c.Request.Context(), name)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, ErrUnknownMethod) {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Rows fetched successfully",
		"method":  name,
		"columns": Columns(rows),
		"rows":    rows,
	})
}

func (sc *SelectController) SelectXLSX(c *gin.Context) {
	name, ok := sc.invoke(c)
	if !ok {
		return
	}
	rows, err := sc.Registry.Invoke(c.Request.Context(), name)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	var buf bytes.Buffer
	if err := WriteXLSX(&buf, rows); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name+".xlsx"))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}
