package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	qrcode "github.com/skip2/go-qrcode"
	"gorm.io/gorm"

	"github.com/Vermasaiyam/EVENT-REGISTRATION-SYSTEM-sub000/internal/helpers"
	"github.com/Vermasaiyam/EVENT-REGISTRATION-SYSTEM-sub000/internal/models"
)

type eventForm struct {
	Name             string
	Description      string
	Mode             models.EventMode
	Fee              int
	RegistrationEnd  time.Time
	EventStart       time.Time
	EventEnd         time.Time
	StartTime        string
	EndTime          string
	RegistrationLink string
}

func parseEventForm(c *gin.Context) (*eventForm, string) {
	form := &eventForm{
		Name:             c.PostForm("name"),
		Description:      c.PostForm("description"),
		StartTime:        c.PostForm("startTime"),
		EndTime:          c.PostForm("endTime"),
		RegistrationLink: c.PostForm("registrationLink"),
	}

	if form.Name == "" || form.Description == "" {
		return nil, "Missing required fields."
	}

	switch mode := models.EventMode(c.PostForm("mode")); mode {
	case models.ModeOnline, models.ModeOffline:
		form.Mode = mode
	default:
		return nil, "Mode must be Online or Offline."
	}

	if feeStr := c.PostForm("fee"); feeStr != "" {
		fee, err := helpers.StringToInt(feeStr)
		if err != nil || fee < 0 {
			return nil, "Invalid fee."
		}
		form.Fee = fee
	}

	var err error
	form.RegistrationEnd, err = helpers.ParseDate(c.PostForm("registrationEndDate"))
	if err != nil {
		return nil, "Invalid registration end date format."
	}
	form.EventStart, err = helpers.ParseDate(c.PostForm("eventStartDate"))
	if err != nil {
		return nil, "Invalid event start date format."
	}
	form.EventEnd, err = helpers.ParseDate(c.PostForm("eventEndDate"))
	if err != nil {
		return nil, "Invalid event end date format."
	}

	return form, ""
}

func uploadGallery(c *gin.Context) ([]string, string) {
	multipartForm, err := c.MultipartForm()
	if err != nil {
		return []string{}, ""
	}

	files := multipartForm.File["images"]
	if len(files) == 0 {
		return []string{}, ""
	}
	if len(files) > helpers.MaxGalleryImages {
		return nil, fmt.Sprintf("At most %d gallery images are allowed.", helpers.MaxGalleryImages)
	}

	paths := make([]string, 0, len(files))
	for _, file := range files {
		path, err := helpers.UploadFile(c, file, "event_gallery")
		if err != nil {
			return nil, err.Error()
		}
		paths = append(paths, path)
	}
	return paths, ""
}

func CreateEvent(c *gin.Context) {
	form, errMsg := parseEventForm(c)
	if errMsg != "" {
		helpers.RespondWithError(c, http.StatusBadRequest, errMsg)
		return
	}

	userID, exists := c.Get("user_id")
	if !exists {
		helpers.RespondWithError(c, http.StatusUnauthorized, "User ID not found in token.")
		return
	}

	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	// Events exist only as children of the requester's club.
	club, err := clubOwnedBy(gormDB, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			helpers.RespondWithError(c, http.StatusBadRequest, "You must own a club to create events.")
			return
		}
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error finding club.")
		return
	}

	imageFile, err := c.FormFile("image")
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Event image is required.")
		return
	}
	imagePath, err := helpers.UploadFile(c, imageFile, "event_images")
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, err.Error())
		return
	}

	galleryPaths, errMsg := uploadGallery(c)
	if errMsg != "" {
		helpers.RespondWithError(c, http.StatusBadRequest, errMsg)
		return
	}

	event := models.Event{
		Name:                form.Name,
		Description:         form.Description,
		Mode:                form.Mode,
		Fee:                 form.Fee,
		RegistrationEndDate: form.RegistrationEnd,
		EventStartDate:      form.EventStart,
		EventEndDate:        form.EventEnd,
		StartTime:           form.StartTime,
		EndTime:             form.EndTime,
		ImagePath:           imagePath,
		GalleryPaths:        galleryPaths,
		RegistrationLink:    form.RegistrationLink,
		ClubID:              club.ID,
	}

	if err := gormDB.Create(&event).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to create event.")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success":  true,
		"message":  "Event created successfully.",
		"event_id": event.ID,
	})
}

func UpdateEvent(c *gin.Context) {
	eventID := c.Param("id")

	form, errMsg := parseEventForm(c)
	if errMsg != "" {
		helpers.RespondWithError(c, http.StatusBadRequest, errMsg)
		return
	}

	userID, exists := c.Get("user_id")
	if !exists {
		helpers.RespondWithError(c, http.StatusUnauthorized, "User ID not found in token.")
		return
	}

	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	club, err := clubOwnedBy(gormDB, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			helpers.RespondWithError(c, http.StatusForbidden, "You must own a club to edit events.")
			return
		}
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error finding club.")
		return
	}

	var event models.Event
	if err := gormDB.Where("id = ? AND club_id = ?", eventID, club.ID).First(&event).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			helpers.RespondWithError(c, http.StatusForbidden, "Event not found or you don't have permission to update.")
			return
		}
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error finding event.")
		return
	}

	event.Name = form.Name
	event.Description = form.Description
	event.Mode = form.Mode
	event.Fee = form.Fee
	event.RegistrationEndDate = form.RegistrationEnd
	event.EventStartDate = form.EventStart
	event.EventEndDate = form.EventEnd
	event.StartTime = form.StartTime
	event.EndTime = form.EndTime
	event.RegistrationLink = form.RegistrationLink

	if imageFile, err := c.FormFile("image"); err == nil {
		imagePath, err := helpers.UploadFile(c, imageFile, "event_images")
		if err != nil {
			helpers.RespondWithError(c, http.StatusBadRequest, err.Error())
			return
		}
		if err := helpers.DeleteFile(event.ImagePath); err != nil {
			fmt.Printf("Error deleting old event image: %v\n", err)
		}
		event.ImagePath = imagePath
	}

	galleryPaths, errMsg := uploadGallery(c)
	if errMsg != "" {
		helpers.RespondWithError(c, http.StatusBadRequest, errMsg)
		return
	}
	if len(galleryPaths) > 0 {
		for _, oldPath := range event.GalleryPaths {
			if err := helpers.DeleteFile(oldPath); err != nil {
				fmt.Printf("Error deleting old gallery image: %v\n", err)
			}
		}
		event.GalleryPaths = galleryPaths
	}

	if err := gormDB.Save(&event).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to update event.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Event updated successfully.",
		"event":   event,
	})
}

func DeleteEvent(c *gin.Context) {
	eventID := c.Param("id")

	userID, exists := c.Get("user_id")
	if !exists {
		helpers.RespondWithError(c, http.StatusUnauthorized, "User ID not found in token.")
		return
	}

	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	club, err := clubOwnedBy(gormDB, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			helpers.RespondWithError(c, http.StatusForbidden, "You must own a club to delete events.")
			return
		}
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error finding club.")
		return
	}

	result := gormDB.Where("id = ? AND club_id = ?", eventID, club.ID).Delete(&models.Event{})
	if result.Error != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to delete event.")
		return
	}

	if result.RowsAffected == 0 {
		helpers.RespondWithError(c, http.StatusForbidden, "Event not found or you don't have permission to delete.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Event deleted successfully.",
	})
}

func GetEvent(c *gin.Context) {
	eventID := c.Param("id")

	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	var event models.Event
	if err := gormDB.Preload("Club").Where("id = ?", eventID).First(&event).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			helpers.RespondWithError(c, http.StatusNotFound, "Event not found.")
			return
		}
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving event.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":           true,
		"event":             event,
		"registration_open": event.IsRegistrationOpen(time.Now()),
	})
}

// ListEvents lists events, optionally partitioned by the derived
// registration status (?status=active|past). The partition is recomputed on
// every read; past events come back newest-first.
func ListEvents(c *gin.Context) {
	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	status := c.DefaultQuery("status", "")
	if status != "" && status != "active" && status != "past" {
		helpers.RespondWithError(c, http.StatusBadRequest, "Status must be active or past.")
		return
	}

	pageNum, limitNum, ok := paginationParams(c)
	if !ok {
		return
	}

	var events []models.Event
	if err := gormDB.Preload("Club").Order("created_at ASC").Find(&events).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving events.")
		return
	}

	now := time.Now()
	filtered := []models.Event{}
	for _, event := range events {
		switch status {
		case "active":
			if event.IsRegistrationOpen(now) {
				filtered = append(filtered, event)
			}
		case "past":
			if !event.IsRegistrationOpen(now) {
				filtered = append(filtered, event)
			}
		default:
			filtered = append(filtered, event)
		}
	}

	if status == "past" {
		for i, j := 0, len(filtered)-1; i < j; i, j = i+1, j-1 {
			filtered[i], filtered[j] = filtered[j], filtered[i]
		}
	}

	totalCount := len(filtered)
	offset := (pageNum - 1) * limitNum
	if offset > totalCount {
		offset = totalCount
	}
	end := offset + limitNum
	if end > totalCount {
		end = totalCount
	}

	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"events":      filtered[offset:end],
		"total":       totalCount,
		"page":        pageNum,
		"limit":       limitNum,
		"total_pages": (totalCount + limitNum - 1) / limitNum,
	})
}

// EventQRCode renders the event's external registration link as a PNG QR
// code.
func EventQRCode(c *gin.Context) {
	eventID := c.Param("id")

	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	var event models.Event
	if err := gormDB.Where("id = ?", eventID).First(&event).Error; err != nil {
		helpers.RespondWithError(c, http.StatusNotFound, "Event not found.")
		return
	}

	if event.RegistrationLink == "" {
		helpers.RespondWithError(c, http.StatusNotFound, "Event has no registration link.")
		return
	}

	qrImage, err := qrcode.Encode(event.RegistrationLink, qrcode.Medium, 256)
	if err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to generate QR code.")
		return
	}

	c.Data(http.StatusOK, "image/png", qrImage)
}
