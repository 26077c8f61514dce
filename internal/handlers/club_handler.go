package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/Vermasaiyam/EVENT-REGISTRATION-SYSTEM-sub000/internal/helpers"
	"github.com/Vermasaiyam/EVENT-REGISTRATION-SYSTEM-sub000/internal/models"
)

var (
	errAlreadyOwnsClub = errors.New("requester already owns a club")
	errClubNameTaken   = errors.New("club name already taken")
)

// clubOwnedBy returns the club the user heads, or gorm.ErrRecordNotFound.
func clubOwnedBy(db *gorm.DB, userID interface{}) (*models.Club, error) {
	var role models.ClubRole
	if err := db.Where("user_id = ? AND kind = ?", userID, models.RoleHead).First(&role).Error; err != nil {
		return nil, err
	}

	var club models.Club
	if err := db.Where("id = ?", role.ClubID).First(&club).Error; err != nil {
		return nil, err
	}
	return &club, nil
}

func CreateClub(c *gin.Context) {
	clubName := c.PostForm("clubName")
	if clubName == "" {
		helpers.RespondWithError(c, http.StatusBadRequest, "Club name is required.")
		return
	}
	description := c.PostForm("description")
	instagram := c.PostForm("instagram")
	linkedin := c.PostForm("linkedin")
	website := c.PostForm("website")

	eventTypes, err := helpers.ParseStringSlice(c.PostForm("eventTypes"))
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid eventTypes field.")
		return
	}
	coreTeam, err := helpers.ParseStringSlice(c.PostForm("coreTeam"))
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid coreTeam field.")
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

	var user models.User
	if err := gormDB.Where("id = ?", userID).First(&user).Error; err != nil {
		helpers.RespondWithError(c, http.StatusNotFound, "User not found.")
		return
	}

	// Uploads happen before any database write; a failed upload aborts the
	// request without leaving a half-created club behind.
	bannerPath := ""
	if bannerFile, err := c.FormFile("banner"); err == nil {
		bannerPath, err = helpers.UploadFile(c, bannerFile, "club_banners")
		if err != nil {
			helpers.RespondWithError(c, http.StatusBadRequest, err.Error())
			return
		}
	}

	club := models.Club{
		ClubName:    clubName,
		Description: description,
		EventTypes:  eventTypes,
		CoreTeam:    coreTeam,
		BannerPath:  bannerPath,
		Instagram:   instagram,
		LinkedIn:    linkedin,
		Website:     website,
	}

	// Club insert and the creator's head+member roles move together or not
	// at all. The unique index on club_name backstops the name check under
	// concurrent creates.
	err = gormDB.Transaction(func(tx *gorm.DB) error {
		var headCount int64
		if err := tx.Model(&models.ClubRole{}).
			Where("user_id = ? AND kind = ?", user.ID, models.RoleHead).
			Count(&headCount).Error; err != nil {
			return err
		}
		if headCount > 0 {
			return errAlreadyOwnsClub
		}

		var existing models.Club
		if err := tx.Where("club_name = ?", clubName).First(&existing).Error; err == nil {
			return errClubNameTaken
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		if err := tx.Create(&club).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return errClubNameTaken
			}
			return err
		}

		now := time.Now()
		roles := []models.ClubRole{
			{UserID: user.ID, ClubID: club.ID, Kind: models.RoleHead, GrantedAt: now},
			{UserID: user.ID, ClubID: club.ID, Kind: models.RoleMember, GrantedAt: now},
		}
		if err := tx.Create(&roles).Error; err != nil {
			// The one-headship index fires when two creates race past the
			// headCount check above.
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return errAlreadyOwnsClub
			}
			return err
		}
		return nil
	})
	if err != nil {
		switch {
		case errors.Is(err, errAlreadyOwnsClub):
			helpers.RespondWithError(c, http.StatusBadRequest, "You already own a club.")
		case errors.Is(err, errClubNameTaken):
			helpers.RespondWithError(c, http.StatusBadRequest, "A club with this name already exists.")
		default:
			helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to create club.")
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Club created successfully.",
		"club":    club,
	})
}

func UpdateClub(c *gin.Context) {
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
			helpers.RespondWithError(c, http.StatusNotFound, "You don't own a club.")
			return
		}
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error finding club.")
		return
	}

	if newName := c.PostForm("clubName"); newName != "" {
		club.ClubName = newName
	}
	if description := c.PostForm("description"); description != "" {
		club.Description = description
	}
	if instagram := c.PostForm("instagram"); instagram != "" {
		club.Instagram = instagram
	}
	if linkedin := c.PostForm("linkedin"); linkedin != "" {
		club.LinkedIn = linkedin
	}
	if website := c.PostForm("website"); website != "" {
		club.Website = website
	}

	if raw := c.PostForm("eventTypes"); raw != "" {
		eventTypes, err := helpers.ParseStringSlice(raw)
		if err != nil {
			helpers.RespondWithError(c, http.StatusBadRequest, "Invalid eventTypes field.")
			return
		}
		club.EventTypes = eventTypes
	}
	if raw := c.PostForm("coreTeam"); raw != "" {
		coreTeam, err := helpers.ParseStringSlice(raw)
		if err != nil {
			helpers.RespondWithError(c, http.StatusBadRequest, "Invalid coreTeam field.")
			return
		}
		club.CoreTeam = coreTeam
	}

	if bannerFile, err := c.FormFile("banner"); err == nil {
		bannerPath, err := helpers.UploadFile(c, bannerFile, "club_banners")
		if err != nil {
			helpers.RespondWithError(c, http.StatusBadRequest, err.Error())
			return
		}
		if club.BannerPath != "" {
			if err := helpers.DeleteFile(club.BannerPath); err != nil {
				fmt.Printf("Error deleting old banner: %v\n", err)
			}
		}
		club.BannerPath = bannerPath
	}

	if err := gormDB.Save(club).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			helpers.RespondWithError(c, http.StatusBadRequest, "A club with this name already exists.")
			return
		}
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to update club.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Club updated successfully.",
		"club":    club,
	})
}

// GetMyClub returns the club headed by the requester, with its members and
// events.
func GetMyClub(c *gin.Context) {
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
			helpers.RespondWithError(c, http.StatusNotFound, "You don't own a club.")
			return
		}
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error finding club.")
		return
	}

	if err := gormDB.Preload("Events").Preload("Roles.User").Where("id = ?", club.ID).First(club).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving club.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"club":    club,
	})
}

func GetClub(c *gin.Context) {
	clubID := c.Param("id")

	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	var club models.Club
	if err := gormDB.Preload("Events").Where("id = ?", clubID).First(&club).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			helpers.RespondWithError(c, http.StatusNotFound, "Club not found.")
			return
		}
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving club.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"club":    club,
	})
}

func ListClubs(c *gin.Context) {
	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	pageNum, limitNum, ok := paginationParams(c)
	if !ok {
		return
	}

	query := gormDB.Model(&models.Club{})

	var totalCount int64
	query.Count(&totalCount)

	var clubs []models.Club
	offset := (pageNum - 1) * limitNum
	err := query.Preload("Events").Offset(offset).Limit(limitNum).Order("created_at ASC").Find(&clubs).Error
	if err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving clubs.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"clubs":       clubs,
		"total":       totalCount,
		"page":        pageNum,
		"limit":       limitNum,
		"total_pages": (totalCount + int64(limitNum) - 1) / int64(limitNum),
	})
}

// SearchClubs does a case-insensitive substring match of the path text over
// club name, event-type tags and core-team names. Optional eventTypes query
// tags additionally require the club to carry at least one of them. Full
// scan, storage order, no ranking.
func SearchClubs(c *gin.Context) {
	text := strings.ToLower(c.Param("text"))

	var tags []string
	if rawTags := c.Query("eventTypes"); rawTags != "" {
		for _, tag := range strings.Split(rawTags, ",") {
			if tag = strings.TrimSpace(tag); tag != "" {
				tags = append(tags, strings.ToLower(tag))
			}
		}
	}

	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	var clubs []models.Club
	if err := gormDB.Order("created_at ASC").Find(&clubs).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving clubs.")
		return
	}

	matched := []models.Club{}
	for _, club := range clubs {
		if !clubMatchesText(&club, text) {
			continue
		}
		if len(tags) > 0 && !clubHasAnyTag(&club, tags) {
			continue
		}
		matched = append(matched, club)
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"clubs":   matched,
	})
}

func clubMatchesText(club *models.Club, text string) bool {
	if text == "" {
		return true
	}
	if strings.Contains(strings.ToLower(club.ClubName), text) {
		return true
	}
	for _, eventType := range club.EventTypes {
		if strings.Contains(strings.ToLower(eventType), text) {
			return true
		}
	}
	for _, member := range club.CoreTeam {
		if strings.Contains(strings.ToLower(member), text) {
			return true
		}
	}
	return false
}

func clubHasAnyTag(club *models.Club, tags []string) bool {
	for _, eventType := range club.EventTypes {
		lowered := strings.ToLower(eventType)
		for _, tag := range tags {
			if lowered == tag {
				return true
			}
		}
	}
	return false
}
