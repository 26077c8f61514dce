package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Vermasaiyam/EVENT-REGISTRATION-SYSTEM-sub000/internal/helpers"
	"github.com/Vermasaiyam/EVENT-REGISTRATION-SYSTEM-sub000/internal/models"
)

var (
	errLastHead         = errors.New("club must keep at least one head")
	errHeadsAnotherClub = errors.New("user already heads another club")
)

type UpdateProfileRequest struct {
	Name            string `json:"name"`
	PhoneNumber     string `json:"phone_number"`
	AdmissionNumber string `json:"admission_number"`
	Branch          string `json:"branch"`
	Year            int    `json:"year"`
}

func UpdateProfile(c *gin.Context) {
	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid input. Please check your fields.")
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

	if req.Name != "" {
		user.Name = req.Name
	}
	if req.PhoneNumber != "" {
		user.PhoneNumber = req.PhoneNumber
	}
	if req.AdmissionNumber != "" {
		user.AdmissionNumber = req.AdmissionNumber
	}
	if req.Branch != "" {
		user.Branch = req.Branch
	}
	if req.Year != 0 {
		user.Year = req.Year
	}

	if err := gormDB.Save(&user).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to update profile.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Profile updated successfully.",
		"user":    user,
	})
}

// canManageClubRoles reports whether the requester may grant or revoke roles
// for the given club: the site head may, and so may any head of that club.
func canManageClubRoles(db *gorm.DB, requesterID interface{}, clubID uuid.UUID) (bool, error) {
	var requester models.User
	if err := db.Where("id = ?", requesterID).First(&requester).Error; err != nil {
		return false, err
	}
	if requester.IsHead {
		return true, nil
	}

	var count int64
	err := db.Model(&models.ClubRole{}).
		Where("user_id = ? AND club_id = ? AND kind = ?", requester.ID, clubID, models.RoleHead).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func ListUsers(c *gin.Context) {
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

	var requester models.User
	if err := gormDB.Where("id = ?", userID).First(&requester).Error; err != nil {
		helpers.RespondWithError(c, http.StatusNotFound, "User not found.")
		return
	}

	if !requester.IsHead {
		var headCount int64
		err := gormDB.Model(&models.ClubRole{}).
			Where("user_id = ? AND kind = ?", requester.ID, models.RoleHead).
			Count(&headCount).Error
		if err != nil {
			helpers.RespondWithError(c, http.StatusInternalServerError, "Error checking permissions.")
			return
		}
		if headCount == 0 {
			helpers.RespondWithError(c, http.StatusForbidden, "Only club heads can list users.")
			return
		}
	}

	pageNum, limitNum, ok := paginationParams(c)
	if !ok {
		return
	}

	var totalCount int64
	gormDB.Model(&models.User{}).Count(&totalCount)

	var users []models.User
	offset := (pageNum - 1) * limitNum
	err := gormDB.Preload("ClubRoles.Club").Offset(offset).Limit(limitNum).Order("created_at ASC").Find(&users).Error
	if err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving users.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"users":       users,
		"total":       totalCount,
		"page":        pageNum,
		"limit":       limitNum,
		"total_pages": (totalCount + int64(limitNum) - 1) / int64(limitNum),
	})
}

type UpdateUserRoleRequest struct {
	UserID uuid.UUID `json:"user_id" binding:"required"`
	ClubID uuid.UUID `json:"club_id" binding:"required"`
	IsHead *bool     `json:"is_head" binding:"required"`
}

// UpdateUserRole grants or revokes the head role of a club. A demotion
// re-counts the club's heads inside the same transaction so that two
// concurrent demotions cannot leave the club headless.
func UpdateUserRole(c *gin.Context) {
	var req UpdateUserRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid input. Please check your fields.")
		return
	}

	requesterID, exists := c.Get("user_id")
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

	allowed, err := canManageClubRoles(gormDB, requesterID, req.ClubID)
	if err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error checking permissions.")
		return
	}
	if !allowed {
		helpers.RespondWithError(c, http.StatusForbidden, "Only club heads can manage roles.")
		return
	}

	var target models.User
	if err := gormDB.Where("id = ?", req.UserID).First(&target).Error; err != nil {
		helpers.RespondWithError(c, http.StatusNotFound, "User not found.")
		return
	}

	var club models.Club
	if err := gormDB.Where("id = ?", req.ClubID).First(&club).Error; err != nil {
		helpers.RespondWithError(c, http.StatusNotFound, "Club not found.")
		return
	}

	err = gormDB.Transaction(func(tx *gorm.DB) error {
		if *req.IsHead {
			// A user heads at most one club; the partial unique index on
			// club_roles backstops this check under concurrent grants.
			var otherHeadships int64
			if err := tx.Model(&models.ClubRole{}).
				Where("user_id = ? AND kind = ? AND club_id <> ?", target.ID, models.RoleHead, club.ID).
				Count(&otherHeadships).Error; err != nil {
				return err
			}
			if otherHeadships > 0 {
				return errHeadsAnotherClub
			}

			role := models.ClubRole{
				UserID:    target.ID,
				ClubID:    club.ID,
				Kind:      models.RoleHead,
				GrantedAt: time.Now(),
			}
			err := tx.Where("user_id = ? AND club_id = ? AND kind = ?", target.ID, club.ID, models.RoleHead).
				FirstOrCreate(&role).Error
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return errHeadsAnotherClub
			}
			return err
		}

		var headCount int64
		if err := tx.Model(&models.ClubRole{}).
			Where("club_id = ? AND kind = ?", club.ID, models.RoleHead).
			Count(&headCount).Error; err != nil {
			return err
		}

		var targetIsHead int64
		if err := tx.Model(&models.ClubRole{}).
			Where("user_id = ? AND club_id = ? AND kind = ?", target.ID, club.ID, models.RoleHead).
			Count(&targetIsHead).Error; err != nil {
			return err
		}
		if targetIsHead == 0 {
			// Revoking an absent role is a no-op.
			return nil
		}
		if headCount <= 1 {
			return errLastHead
		}

		return tx.Where("user_id = ? AND club_id = ? AND kind = ?", target.ID, club.ID, models.RoleHead).
			Delete(&models.ClubRole{}).Error
	})
	if err != nil {
		switch {
		case errors.Is(err, errLastHead):
			helpers.RespondWithError(c, http.StatusBadRequest, "Cannot demote the last head of the club.")
		case errors.Is(err, errHeadsAnotherClub):
			helpers.RespondWithError(c, http.StatusBadRequest, "User already heads another club.")
		default:
			helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to update role.")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Role updated successfully.",
	})
}

type UpdateMemberRoleRequest struct {
	UserID  uuid.UUID `json:"user_id" binding:"required"`
	ClubID  uuid.UUID `json:"club_id" binding:"required"`
	Role    string    `json:"role" binding:"required"`
	Enabled *bool     `json:"enabled" binding:"required"`
}

// UpdateMemberRole grants or revokes the member or counselor role of a club.
// Revoking an absent role is not an error.
func UpdateMemberRole(c *gin.Context) {
	var req UpdateMemberRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid input. Please check your fields.")
		return
	}

	kind := models.RoleKind(req.Role)
	if kind != models.RoleMember && kind != models.RoleCounselor {
		helpers.RespondWithError(c, http.StatusBadRequest, "Role must be member or counselor.")
		return
	}

	requesterID, exists := c.Get("user_id")
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

	allowed, err := canManageClubRoles(gormDB, requesterID, req.ClubID)
	if err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error checking permissions.")
		return
	}
	if !allowed {
		helpers.RespondWithError(c, http.StatusForbidden, "Only club heads can manage roles.")
		return
	}

	var target models.User
	if err := gormDB.Where("id = ?", req.UserID).First(&target).Error; err != nil {
		helpers.RespondWithError(c, http.StatusNotFound, "User not found.")
		return
	}

	var club models.Club
	if err := gormDB.Where("id = ?", req.ClubID).First(&club).Error; err != nil {
		helpers.RespondWithError(c, http.StatusNotFound, "Club not found.")
		return
	}

	if *req.Enabled {
		role := models.ClubRole{
			UserID:    target.ID,
			ClubID:    club.ID,
			Kind:      kind,
			GrantedAt: time.Now(),
		}
		err = gormDB.Where("user_id = ? AND club_id = ? AND kind = ?", target.ID, club.ID, kind).
			FirstOrCreate(&role).Error
	} else {
		err = gormDB.Where("user_id = ? AND club_id = ? AND kind = ?", target.ID, club.ID, kind).
			Delete(&models.ClubRole{}).Error
	}
	if err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to update role.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Role updated successfully.",
	})
}
