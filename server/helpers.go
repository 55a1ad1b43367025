package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Daskott/addressbook/server/auth"
	"github.com/Daskott/addressbook/server/auth/key"
	"github.com/Daskott/addressbook/server/backup"
	"github.com/Daskott/addressbook/utils"
	"go.uber.org/zap"
)

// ---------------------------------------------------------------------------------//
// Handler Helper functions
// --------------------------------------------------------------------------------//

func writeResponse(rw http.ResponseWriter, logg *zap.SugaredLogger, payLoad ResponsePayload, statusCode int) {
	if statusCode >= http.StatusInternalServerError {
		logg.Error(payLoad.Errors)
	} else if statusCode >= http.StatusBadRequest {
		logg.Info(payLoad.Errors)
	}

	writeJSON(rw, payLoad, statusCode)
}

func writeJSON(rw http.ResponseWriter, data interface{}, statusCode int) {
	rw.Header().Set("Content-Type", "application/json")
	rw.WriteHeader(statusCode)
	json.NewEncoder(rw).Encode(data)
}

func writeText(rw http.ResponseWriter, msg string, statusCode int) {
	rw.Header().Set("Content-Type", "text/plain; charset=utf-8")
	rw.WriteHeader(statusCode)
	rw.Write([]byte(msg))
}

// ---------------------------------------------------------------------------------//
// Middleware Helper functions
// --------------------------------------------------------------------------------//

func decodeAndVerifyAuthHeader(authHeaderValue string, keyPair *key.KeyPair) DecodedJWT {
	authHeaderList := strings.Split(authHeaderValue, "Bearer ")
	if len(authHeaderList) < 2 {
		return DecodedJWT{ErrorMsg: "no token provided"}
	}

	tokenClaims, err := auth.DecodeJWT(authHeaderList[1], keyPair)
	if err != nil {
		return DecodedJWT{ErrorMsg: "invalid token provided"}
	}

	return DecodedJWT{Claims: tokenClaims}
}

// ---------------------------------------------------------------------------------//
// Server Helper functions
// --------------------------------------------------------------------------------//

func serve(server *http.Server, logg *zap.SugaredLogger) {
	logg.Infof("Addressbook server is listening on %v", server.Addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Fatal(err)
	}
}

func cleanup(server *http.Server, sqliteBackup *backup.SqliteBackup, closeDB func() error, logg *zap.SugaredLogger) {
	// Shutdown server gracefully
	ctxShutDown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctxShutDown); err != nil {
		logg.Errorf("Addressbook server shutdown failed:%+s", err)
	}

	// Stop scheduled backups & take a final one, now that no more writes can come in
	if sqliteBackup != nil {
		if err := sqliteBackup.Stop(context.Background()); err != nil {
			logg.Error(err)
		}
	}

	if closeDB != nil {
		if err := closeDB(); err != nil {
			logg.Error(err)
		}
	}

	logg.Infof("Addressbook server stopped properly")
}

// configDirectory retrieves the directory to store addressbook data in
func configDirectory(devMode bool) (string, error) {
	// Use 'addressbook' folder in home directory for prod
	configFolderName := "addressbook"
	rootDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	// Use 'dev' folder in current directory for dev mode
	if devMode {
		configFolderName = "dev"
		rootDir, err = os.Getwd()
		if err != nil {
			return "", err
		}
	}

	configDir := filepath.Join(rootDir, configFolderName)

	err = utils.CreateDirIfNotExist(configDir)
	if err != nil {
		return "", fmt.Errorf("unable to create config directory: %v", err)
	}

	return configDir, nil
}
