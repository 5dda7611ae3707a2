package utils

import "golang.org/x/crypto/bcrypt"

// PasswordCost is the bcrypt cost used for operator passwords.
var PasswordCost = bcrypt.DefaultCost

func HashPassword(plain string) (string, error) {
    hashed, err := bcrypt.GenerateFromPassword([]byte(plain), PasswordCost)
    if err != nil {
        return "", err
    }
    return string(hashed), nil
}

func CheckPassword(hashed, plain string) bool {
    return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plain)) == nil
}
