package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ecomdata/import-backend/dto"
	"github.com/ecomdata/import-backend/pure_utils"
	"github.com/ecomdata/import-backend/usecases"
)

type ImportUriInput struct {
	ImportId string `uri:"import_id" binding:"required,uuid"`
}

func handleUploadFile(uc usecases.Usecases) func(c *gin.Context) {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		dataType := c.PostForm("data_type")
		fileHeader, err := c.FormFile("file")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "missing file in multipart form"})
			return
		}

		file, err := fileHeader.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "could not open uploaded file"})
			return
		}
		defer file.Close()

		usecase := uc.NewImportUseCase()
		job, err := usecase.UploadFile(ctx, usecases.UploadFileInput{
			DataType: dataType,
			FileName: fileHeader.Filename,
			Reader:   file,
		})
		if presentError(ctx, c, err) {
			return
		}

		c.JSON(http.StatusCreated, gin.H{"import": dto.AdaptImportJobDto(job)})
	}
}

func handleListImports(uc usecases.Usecases) func(c *gin.Context) {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		var params dto.PaginationParams
		if err := c.ShouldBind(&params); err != nil {
			c.Status(http.StatusBadRequest)
			return
		}

		usecase := uc.NewImportUseCase()
		page, err := usecase.ListHistory(ctx, dto.AdaptPageParams(params))
		if presentError(ctx, c, err) {
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"imports": pure_utils.Map(page.Items, dto.AdaptImportJobDto),
			"total":   page.Total,
			"page":    page.Page,
			"size":    page.Size,
		})
	}
}

func handleGetImport(uc usecases.Usecases) func(c *gin.Context) {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		var uri ImportUriInput
		if err := c.ShouldBindUri(&uri); err != nil {
			c.Status(http.StatusBadRequest)
			return
		}

		usecase := uc.NewImportUseCase()
		job, err := usecase.GetJob(ctx, uri.ImportId)
		if presentError(ctx, c, err) {
			return
		}

		c.JSON(http.StatusOK, gin.H{"import": dto.AdaptImportJobDto(job)})
	}
}

func handleParseFile(uc usecases.Usecases) func(c *gin.Context) {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		var uri ImportUriInput
		if err := c.ShouldBindUri(&uri); err != nil {
			c.Status(http.StatusBadRequest)
			return
		}

		usecase := uc.NewImportUseCase()
		job, preview, err := usecase.ParseFile(ctx, uri.ImportId)
		if presentError(ctx, c, err) {
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"import":  dto.AdaptImportJobDto(job),
			"preview": preview,
		})
	}
}

func handleProposeMapping(uc usecases.Usecases) func(c *gin.Context) {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		var uri ImportUriInput
		if err := c.ShouldBindUri(&uri); err != nil {
			c.Status(http.StatusBadRequest)
			return
		}

		usecase := uc.NewImportUseCase()
		proposal, err := usecase.ProposeMapping(ctx, uri.ImportId)
		if presentError(ctx, c, err) {
			return
		}

		c.JSON(http.StatusOK, gin.H{"mapping": pure_utils.Map(proposal, dto.AdaptFieldMappingDto)})
	}
}

func handleSetMapping(uc usecases.Usecases) func(c *gin.Context) {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		var uri ImportUriInput
		if err := c.ShouldBindUri(&uri); err != nil {
			c.Status(http.StatusBadRequest)
			return
		}
		var body dto.SetMappingBody
		if err := c.ShouldBindJSON(&body); err != nil {
			c.Status(http.StatusBadRequest)
			return
		}

		usecase := uc.NewImportUseCase()
		job, err := usecase.SetMapping(ctx, uri.ImportId, body.Mapping)
		if presentError(ctx, c, err) {
			return
		}

		c.JSON(http.StatusOK, gin.H{"import": dto.AdaptImportJobDto(job)})
	}
}

func handleValidateRows(uc usecases.Usecases) func(c *gin.Context) {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		var uri ImportUriInput
		if err := c.ShouldBindUri(&uri); err != nil {
			c.Status(http.StatusBadRequest)
			return
		}

		usecase := uc.NewImportUseCase()
		summary, err := usecase.ValidateRows(ctx, uri.ImportId)
		if presentError(ctx, c, err) {
			return
		}

		c.JSON(http.StatusOK, gin.H{"validation_summary": dto.AdaptValidationSummaryDto(summary)})
	}
}

func handleConfirmImport(uc usecases.Usecases) func(c *gin.Context) {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		var uri ImportUriInput
		if err := c.ShouldBindUri(&uri); err != nil {
			c.Status(http.StatusBadRequest)
			return
		}

		usecase := uc.NewImportUseCase()
		result, err := usecase.ConfirmImport(ctx, uri.ImportId)
		if presentError(ctx, c, err) {
			return
		}

		c.JSON(http.StatusOK, gin.H{"result": dto.AdaptImportResultDto(result)})
	}
}

func handleCancelImport(uc usecases.Usecases) func(c *gin.Context) {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		var uri ImportUriInput
		if err := c.ShouldBindUri(&uri); err != nil {
			c.Status(http.StatusBadRequest)
			return
		}

		usecase := uc.NewImportUseCase()
		job, err := usecase.Cancel(ctx, uri.ImportId)
		if presentError(ctx, c, err) {
			return
		}

		c.JSON(http.StatusOK, gin.H{"import": dto.AdaptImportJobDto(job)})
	}
}

func handleGetProgress(uc usecases.Usecases) func(c *gin.Context) {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		var uri ImportUriInput
		if err := c.ShouldBindUri(&uri); err != nil {
			c.Status(http.StatusBadRequest)
			return
		}

		usecase := uc.NewImportUseCase()
		progress, err := usecase.GetStatus(ctx, uri.ImportId)
		if presentError(ctx, c, err) {
			return
		}

		c.JSON(http.StatusOK, gin.H{"progress": dto.AdaptImportProgressDto(progress)})
	}
}
